package sqlite

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS cereal (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  name     TEXT    NOT NULL,
  mfr      TEXT    NOT NULL,
  type     TEXT    NOT NULL,
  calories INTEGER NOT NULL DEFAULT 0,
  protein  INTEGER NOT NULL DEFAULT 0,
  fat      INTEGER NOT NULL DEFAULT 0,
  sodium   INTEGER NOT NULL DEFAULT 0,
  fiber    REAL    NOT NULL DEFAULT 0,
  carbo    REAL    NOT NULL DEFAULT 0,
  sugars   INTEGER NOT NULL DEFAULT 0,
  potass   INTEGER NOT NULL DEFAULT 0,
  vitamins INTEGER NOT NULL DEFAULT 0,
  shelf    INTEGER NOT NULL DEFAULT 0,
  weight   REAL    NOT NULL DEFAULT 0,
  cups     REAL    NOT NULL DEFAULT 0,
  rating   REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cerealpictures (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  cerealid    INTEGER NOT NULL REFERENCES cereal(id) ON DELETE CASCADE,
  picturepath TEXT    NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_pictures_cereal ON cerealpictures(cerealid);

CREATE TABLE IF NOT EXISTS cerealuser (
  id   INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL,
  pwd  TEXT NOT NULL
);
`
