package postgres

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS cereal (
  id       BIGSERIAL PRIMARY KEY,
  name     TEXT             NOT NULL,
  mfr      TEXT             NOT NULL,
  type     TEXT             NOT NULL,
  calories BIGINT           NOT NULL DEFAULT 0,
  protein  BIGINT           NOT NULL DEFAULT 0,
  fat      BIGINT           NOT NULL DEFAULT 0,
  sodium   BIGINT           NOT NULL DEFAULT 0,
  fiber    DOUBLE PRECISION NOT NULL DEFAULT 0,
  carbo    DOUBLE PRECISION NOT NULL DEFAULT 0,
  sugars   BIGINT           NOT NULL DEFAULT 0,
  potass   BIGINT           NOT NULL DEFAULT 0,
  vitamins BIGINT           NOT NULL DEFAULT 0,
  shelf    BIGINT           NOT NULL DEFAULT 0,
  weight   DOUBLE PRECISION NOT NULL DEFAULT 0,
  cups     DOUBLE PRECISION NOT NULL DEFAULT 0,
  rating   DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cerealpictures (
  id          BIGSERIAL PRIMARY KEY,
  cerealid    BIGINT NOT NULL REFERENCES cereal(id) ON DELETE CASCADE,
  picturepath TEXT   NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_pictures_cereal ON cerealpictures(cerealid);

CREATE TABLE IF NOT EXISTS cerealuser (
  id   BIGSERIAL PRIMARY KEY,
  name TEXT UNIQUE NOT NULL,
  pwd  TEXT NOT NULL
);
`
