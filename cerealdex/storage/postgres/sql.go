package postgres

import "github.com/cerealdex/cerealdex/cerealdex/storage"

const cerealSelect = `SELECT id, name, mfr, type, calories, protein, fat, sodium, fiber,
	carbo, sugars, potass, vitamins, shelf, weight, cups, rating FROM cereal`

var SQLTemplates = storage.SQL{
	GetMeta:            "SELECT value FROM meta WHERE key = $1",
	SetMeta:            "INSERT INTO meta(key,value) VALUES($1,$2) ON CONFLICT(key) DO UPDATE SET value=EXCLUDED.value",
	SelectCereals:      cerealSelect + " ORDER BY id",
	SelectCerealByID:   cerealSelect + " WHERE id = $1",
	CerealExists:       "SELECT 1 FROM cereal WHERE id = $1",
	DeleteCereal:       "DELETE FROM cereal WHERE id = $1",
	GetPictureByCereal: "SELECT id, cerealid, picturepath FROM cerealpictures WHERE cerealid = $1 ORDER BY id LIMIT 1",
	InsertPicture:      "INSERT INTO cerealpictures(cerealid, picturepath) VALUES($1, $2)",
	UpdatePicture:      "UPDATE cerealpictures SET picturepath = $2 WHERE cerealid = $1",
	InsertUser:         "INSERT INTO cerealuser(name, pwd) VALUES($1, $2)",
	GetUserByName:      "SELECT id, name, pwd FROM cerealuser WHERE name = $1",
	CountUsers:         "SELECT COUNT(*) FROM cerealuser",
	UpdateUserHash:     "UPDATE cerealuser SET pwd = $2 WHERE name = $1",
}
