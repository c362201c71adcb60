package infra

import (
	"fmt"

	"comanda/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (sequences, partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and applies the SQL patches.
// Also used by integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.Mesa{},
		&model.Pedido{},
		&model.DetallePedido{},
		&model.Reserva{},
		&model.ReservaPlato{},
		&model.Venta{},
		&model.SesionCaja{},
		&model.Gasto{},
		&model.Asistencia{},
		&model.EnvioTicket{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot handle:
// the ticket-number sequence and the partial unique indexes backing domain
// invariants. Safe to re-run on an already-patched database.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Números de ticket: una secuencia de Postgres en lugar de MAX()+1,
		// para que dos pedidos simultáneos nunca compartan número.
		{"sequence pedidos_numero_diario_seq",
			`CREATE SEQUENCE IF NOT EXISTS pedidos_numero_diario_seq START 1`},

		// A lo sumo una sesión de caja Abierta en todo el sistema. El service
		// la verifica dentro de su transacción; este índice parcial es el
		// respaldo ante aperturas concurrentes.
		{"partial unique index sesiones_caja abierta", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sesiones_caja_abierta_unica') THEN
    CREATE UNIQUE INDEX idx_sesiones_caja_abierta_unica
        ON sesiones_caja ((estado))
        WHERE estado = 'Abierta';
  END IF;
END $$`},

		// Una asistencia por empleado por día.
		{"unique index asistencias empleado+fecha", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_asistencias_empleado_dia') THEN
    CREATE UNIQUE INDEX idx_asistencias_empleado_dia
        ON asistencias (empleado_id, fecha);
  END IF;
END $$`},

		// Índice parcial para la consulta del cron de reintentos de correo.
		{"partial index envios_ticket pending retry", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_envios_ticket_pending_retry') THEN
    CREATE INDEX idx_envios_ticket_pending_retry
        ON envios_ticket (next_retry_at)
        WHERE estado = 'fallido' AND next_retry_at IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
