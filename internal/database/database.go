package database

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

const schema = `
CREATE TABLE IF NOT EXISTS sensor_readings (
	id          BIGSERIAL PRIMARY KEY,
	asset_id    TEXT NOT NULL,
	timestamp   TIMESTAMPTZ NOT NULL,
	motor_amps  DOUBLE PRECISION NOT NULL DEFAULT 0,
	temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
	vibration   DOUBLE PRECISION NOT NULL DEFAULT 0,
	status      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sensor_readings_timestamp ON sensor_readings (timestamp);
CREATE INDEX IF NOT EXISTS idx_sensor_readings_asset_id ON sensor_readings (asset_id);
`

func Connect() (*sqlx.DB, error) {
	dsn := viper.GetString("DB_DSN")
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
