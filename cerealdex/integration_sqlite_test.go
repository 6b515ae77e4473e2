package cerealdex_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/cerealdex/cerealdex/cerealdex"
	"github.com/cerealdex/cerealdex/cerealdex/filter"
	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlite"
)

const sampleCSV = `name,mfr,type,calories,protein,fat,sodium,fiber,carbo,sugars,potass,vitamins,shelf,weight,cups,rating
100% Bran,N,C,70,4,1,130,10,5,6,280,25,3,1,0.33,68.402973
100% Natural Bran,Q,C,120,3,5,15,2,8,8,135,0,3,1,1,33.983679
All-Bran,K,C,70,4,1,260,9,7,5,320,25,3,1,0.33,59.425505
Cheerios,G,C,110,6,2,290,2,17,1,105,25,1,1,1.25,50.764999
Maypo,A,H,100,4,1,0,0,16,3,95,25,2,1,1,54.850917
`

func newStore(t *testing.T) (*cerealdex.Store, string) {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	opts := cerealdex.DefaultOptions()
	opts.StaticDir = filepath.Join(dir, "static")
	opts.BcryptCost = bcrypt.MinCost

	st, err := cerealdex.Create(context.Background(), sqlite.New(dbPath), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, dbPath
}

func seed(t *testing.T, st *cerealdex.Store) []int64 {
	t.Helper()
	res, err := st.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 5, res.Added)
	require.Empty(t, res.Skipped)
	return res.IDs
}

func names(cs []cerealdex.Cereal) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func cheerios() map[string]string {
	return map[string]string{
		"name": "Cheerios", "manufacturer": "G", "type": "C", "calories": "110",
		"protein": "6", "fat": "2", "sodium": "290", "fiber": "2", "carbohydrates": "17",
		"sugars": "1", "potassium": "105", "vitamins": "25", "shelf": "1",
		"weight": "1", "cups": "1.25", "rating": "50.764999",
	}
}

func TestAddGetAll_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	c, err := st.Add(ctx, cheerios())
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "G", c.Mfr)
	assert.Equal(t, 17.0, c.Carbo)
	assert.Equal(t, int64(105), c.Potass)

	got, err := st.ByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	all, err := st.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = st.ByID(ctx, c.ID+100)
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrNotFound))
}

func TestAddRejectsBadInput_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	missing := cheerios()
	delete(missing, "rating")
	_, err := st.Add(ctx, missing)
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInvalidInput), "err=%v", err)

	badMfr := cheerios()
	badMfr["manufacturer"] = "Z"
	_, err = st.Add(ctx, badMfr)
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInvalidValue), "err=%v", err)

	withID := cheerios()
	withID["id"] = "7"
	_, err = st.Add(ctx, withID)
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInvalidInput), "err=%v", err)

	unknown := cheerios()
	unknown["colour"] = "beige"
	_, err = st.Add(ctx, unknown)
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrUnknownColumn), "err=%v", err)

	all, err := st.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()
	ids := seed(t, st)

	c, err := st.Update(ctx, ids[3], map[string]string{"calories": "115", "cups": "1.5"})
	require.NoError(t, err)
	assert.Equal(t, ids[3], c.ID)
	assert.Equal(t, int64(115), c.Calories)
	assert.Equal(t, 1.5, c.Cups)
	assert.Equal(t, "Cheerios", c.Name)

	_, err = st.Update(ctx, ids[3], map[string]string{"id": "99"})
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInvalidInput))

	_, err = st.Update(ctx, ids[3], map[string]string{"shelf": "top"})
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInvalidValue))

	_, err = st.Update(ctx, 9999, map[string]string{"calories": "1"})
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrNotFound))
}

func TestFilter_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()
	seed(t, st)

	got, err := st.Filter(ctx, []filter.Triple{
		{Column: "calories", Op: ">=", Raw: "100"},
		{Column: "mfr", Op: "!=", Raw: "Q"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cheerios", "Maypo"}, names(got))

	got, err = st.Filter(ctx, []filter.Triple{
		{Column: "carbohydrates", Op: "greater", Raw: "6.5"},
		{Column: "type", Op: "eq", Raw: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Natural Bran", "All-Bran", "Cheerios"}, names(got))

	got, err = st.Filter(ctx, []filter.Triple{{Column: "sodium", Op: ">", Raw: "1000"}})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = st.Filter(ctx, []filter.Triple{
		{Column: "calories", Op: ">", Raw: "110"},
		{Column: "calories", Op: "<", Raw: "100"},
	})
	require.Error(t, err)
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInfeasible))
	kind, ok := cerealdex.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, cerealdex.ErrInfeasible, kind)
}

func TestCheck_SQLite(t *testing.T) {
	st, _ := newStore(t)

	tr, err := st.Check([]filter.Triple{
		{Column: "calories", Op: ">", Raw: "110"},
		{Column: "calories", Op: "<=", Raw: "140"},
	})
	require.NoError(t, err)
	state, ok := tr.State("calories")
	require.True(t, ok)
	assert.Equal(t, "[111, 140]", state.String())

	_, err = st.Check([]filter.Triple{{Column: "flavour", Op: "=", Raw: "x"}})
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrUnknownColumn))
}

func TestImportCSVSkipsBadRows_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	doc := `name,mfr,type,calories,protein,fat,sodium,fiber,carbo,sugars,potass,vitamins,shelf,weight,cups,rating,picturepath
Corn Flakes,K,C,100,2,0,290,1,21,2,35,25,1,1,1,45.863324,cornflakes.jpg
Bad Row,X,C,100,2,0,290,1,21,2,35,25,1,1,1,45.8,
Short Row,K,C
Trix,G,C,110,1,1,140,0,13,12,25,25,2,1,1,27.753301,
`
	res, err := st.ImportCSV(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 2, res.Skipped[0].Row)
	assert.Equal(t, 3, res.Skipped[1].Row)

	pic, err := st.Picture(ctx, res.IDs[0])
	require.NoError(t, err)
	assert.Equal(t, "cornflakes.jpg", pic.Path)

	_, err = st.Picture(ctx, res.IDs[1])
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrNotFound))
}

func TestPictures_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()
	ids := seed(t, st)

	_, err := st.SavePicture(ctx, ids[0], "bran.gif", strings.NewReader("GIF89a"))
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrUnsupportedFile))

	_, err = st.SavePicture(ctx, 9999, "bran.png", strings.NewReader("png"))
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrNotFound))

	first, err := st.SavePicture(ctx, ids[0], "bran.PNG", strings.NewReader("first"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first.Path, ".png"))
	firstFile := st.PictureFile(first)
	b, err := os.ReadFile(firstFile)
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	second, err := st.SavePicture(ctx, ids[0], "bran.jpeg", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.Path, second.Path)
	_, err = os.Stat(firstFile)
	assert.True(t, os.IsNotExist(err), "replaced picture file should be removed")

	deleted, err := st.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = st.Picture(ctx, ids[0])
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrNotFound), "picture row should cascade")
	_, err = os.Stat(st.PictureFile(second))
	assert.True(t, os.IsNotExist(err))

	deleted, err = st.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUsers_SQLite(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	n, err := st.UserCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u, err := st.CreateUser(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Name)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	_, err = st.CreateUser(ctx, "admin", "other")
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrInvalidInput))

	_, err = st.Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	_, err = st.Authenticate(ctx, "admin", "wrong")
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrUnauthorized))
	_, err = st.Authenticate(ctx, "nobody", "s3cret")
	assert.True(t, cerealdex.IsKind(err, cerealdex.ErrUnauthorized))

	require.NoError(t, st.SetPassword(ctx, "admin", "n3w"))
	_, err = st.Authenticate(ctx, "admin", "n3w")
	require.NoError(t, err)
	assert.True(t, cerealdex.IsKind(st.SetPassword(ctx, "nobody", "x"), cerealdex.ErrNotFound))
}

func TestReopen_SQLite(t *testing.T) {
	st, dbPath := newStore(t)
	ctx := context.Background()
	seed(t, st)
	require.NoError(t, st.Close())

	again, err := cerealdex.Open(ctx, sqlite.New(dbPath), cerealdex.Options{})
	require.NoError(t, err)
	defer again.Close()

	assert.Equal(t, "1", again.Version())
	all, err := again.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	require.NoError(t, again.Optimize(ctx))
}
