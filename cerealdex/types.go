package cerealdex

import (
	"log/slog"

	"github.com/cerealdex/cerealdex/cerealdex/filter"
)

// Cereal is one catalog row
type Cereal struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Mfr      string  `json:"mfr"`
	Type     string  `json:"type"`
	Calories int64   `json:"calories"`
	Protein  int64   `json:"protein"`
	Fat      int64   `json:"fat"`
	Sodium   int64   `json:"sodium"`
	Fiber    float64 `json:"fiber"`
	Carbo    float64 `json:"carbo"`
	Sugars   int64   `json:"sugars"`
	Potass   int64   `json:"potass"`
	Vitamins int64   `json:"vitamins"`
	Shelf    int64   `json:"shelf"`
	Weight   float64 `json:"weight"`
	Cups     float64 `json:"cups"`
	Rating   float64 `json:"rating"`
}

type cerealField struct {
	get func(*Cereal) filter.Value
	set func(*Cereal, filter.Value)
	ptr func(*Cereal) any
}

func intField(p func(*Cereal) *int64) cerealField {
	return cerealField{
		get: func(c *Cereal) filter.Value { return filter.IntValue(*p(c)) },
		set: func(c *Cereal, v filter.Value) { *p(c) = v.Int },
		ptr: func(c *Cereal) any { return p(c) },
	}
}

func floatField(p func(*Cereal) *float64) cerealField {
	return cerealField{
		get: func(c *Cereal) filter.Value { return filter.FloatValue(*p(c)) },
		set: func(c *Cereal, v filter.Value) { *p(c) = v.Float },
		ptr: func(c *Cereal) any { return p(c) },
	}
}

func textField(p func(*Cereal) *string, mk func(string) filter.Value) cerealField {
	return cerealField{
		get: func(c *Cereal) filter.Value { return mk(*p(c)) },
		set: func(c *Cereal, v filter.Value) { *p(c) = v.Str },
		ptr: func(c *Cereal) any { return p(c) },
	}
}

// cerealFields maps each canonical catalog column to its struct field
var cerealFields = map[string]cerealField{
	"id":       intField(func(c *Cereal) *int64 { return &c.ID }),
	"name":     textField(func(c *Cereal) *string { return &c.Name }, filter.StringValue),
	"mfr":      textField(func(c *Cereal) *string { return &c.Mfr }, filter.EnumValue),
	"type":     textField(func(c *Cereal) *string { return &c.Type }, filter.EnumValue),
	"calories": intField(func(c *Cereal) *int64 { return &c.Calories }),
	"protein":  intField(func(c *Cereal) *int64 { return &c.Protein }),
	"fat":      intField(func(c *Cereal) *int64 { return &c.Fat }),
	"sodium":   intField(func(c *Cereal) *int64 { return &c.Sodium }),
	"fiber":    floatField(func(c *Cereal) *float64 { return &c.Fiber }),
	"carbo":    floatField(func(c *Cereal) *float64 { return &c.Carbo }),
	"sugars":   intField(func(c *Cereal) *int64 { return &c.Sugars }),
	"potass":   intField(func(c *Cereal) *int64 { return &c.Potass }),
	"vitamins": intField(func(c *Cereal) *int64 { return &c.Vitamins }),
	"shelf":    intField(func(c *Cereal) *int64 { return &c.Shelf }),
	"weight":   floatField(func(c *Cereal) *float64 { return &c.Weight }),
	"cups":     floatField(func(c *Cereal) *float64 { return &c.Cups }),
	"rating":   floatField(func(c *Cereal) *float64 { return &c.Rating }),
}

// Field implements filter.Row
func (c Cereal) Field(column string) (filter.Value, bool) {
	f, ok := cerealFields[column]
	if !ok {
		return filter.Value{}, false
	}
	return f.get(&c), true
}

// Set stores an already coerced value into the named canonical column
func (c *Cereal) Set(column string, v filter.Value) bool {
	f, ok := cerealFields[column]
	if !ok {
		return false
	}
	f.set(c, v)
	return true
}

// Values returns the column values in the order of columns
func (c *Cereal) Values(columns []string) []any {
	out := make([]any, len(columns))
	for i, col := range columns {
		out[i] = cerealFields[col].get(c).Any()
	}
	return out
}

// scanDest returns scan targets for id followed by columns
func (c *Cereal) scanDest(columns []string) []any {
	out := make([]any, 0, len(columns)+1)
	out = append(out, &c.ID)
	for _, col := range columns {
		out = append(out, cerealFields[col].ptr(c))
	}
	return out
}

// Picture is the single image attached to a cereal
type Picture struct {
	ID       int64  `json:"id"`
	CerealID int64  `json:"cerealid"`
	Path     string `json:"picturepath"`
}

// User may call mutating operations
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// BulkResult reports a bulk insert
type BulkResult struct {
	Added   int        `json:"added"`
	IDs     []int64    `json:"ids"`
	Skipped []RowError `json:"skipped,omitempty"`
}

// RowError describes an input row that was not stored
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Options configures a Store
type Options struct {
	StaticDir  string // picture files are written here
	BcryptCost int
	Registry   *filter.Registry
	Logger     *slog.Logger
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		StaticDir:  DefaultStaticDir,
		BcryptCost: DefaultBcryptCost,
		Registry:   filter.Catalog,
		Logger:     slog.Default(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StaticDir == "" {
		o.StaticDir = d.StaticDir
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = d.BcryptCost
	}
	if o.Registry == nil {
		o.Registry = d.Registry
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}
