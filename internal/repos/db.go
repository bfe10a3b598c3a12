package repos

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	applog "balalaika/internal/log"
)

// ErrNotFound is returned by reads and updates that matched no document.
var ErrNotFound = errors.New("document not found")

// OpenDB opens the store, ensures the schema and seeds demo data when empty.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := OpenSchema(dsn)
	if err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSchema opens the store with the schema only, no seed data.
func OpenSchema(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is its own database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// No foreign keys: deleting an origin or brand leaves referencing rows in place.
func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL CHECK (name <> ''),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);

CREATE TABLE IF NOT EXISTS sub_categories(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL CHECK (name <> ''),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_sub_categories_name     ON sub_categories(name);
CREATE INDEX IF NOT EXISTS idx_sub_categories_category ON sub_categories(category_id);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
  price_cordobas REAL NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT '',
  category_id TEXT NOT NULL,
  sub_category_id TEXT NOT NULL DEFAULT '',
  featured INTEGER NOT NULL DEFAULT 0,
  out_of_stock INTEGER NOT NULL DEFAULT 0,
  discount REAL NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100),
  gender TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category     ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_sub_category ON products(sub_category_id);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Logger().Info("[seed] inserting demo origins/brands/perfumes")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('cat-arabes','Arabes'),
	  ('cat-disenador','Diseñador')`)

	tx.MustExec(`INSERT INTO sub_categories(id,category_id,name) VALUES
	  ('sub-lattafa','cat-arabes','Lattafa'),
	  ('sub-armaf','cat-arabes','Armaf'),
	  ('sub-versace','cat-disenador','Versace')`)

	tx.MustExec(`INSERT INTO products(id,name,brand,description,price,price_cordobas,image_url,category_id,sub_category_id,featured,out_of_stock,discount,gender) VALUES
	  ('p-khamrah','Khamrah','Lattafa','Notas de canela, dátiles y praliné.',45,1650,'','cat-arabes','sub-lattafa',1,0,0,'Unisex'),
	  ('p-asad','Asad','Lattafa','Pimienta negra, tabaco y vainilla.',35,1290,'','cat-arabes','sub-lattafa',0,0,15,'Masculino'),
	  ('p-club-de-nuit','Club de Nuit Intense','Armaf','Cítricos, abedul ahumado y almizcle.',40,1470,'','cat-arabes','sub-armaf',0,0,0,'Masculino'),
	  ('p-bright-crystal','Bright Crystal','Versace','Granada, peonía y magnolia.',70,2580,'','cat-disenador','sub-versace',0,1,0,'Femenino')`)

	return tx.Commit()
}

// seedUsers ensures the demo admin account exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash)
		VALUES(?,?,?,?)
		ON CONFLICT(email) DO NOTHING
	`, "u-admin", "admin@balalaikas.test", "Admin", string(h))
	return err
}
