package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintenance-backend/config"
	"maintenance-backend/internal/model"
)

// Init opens the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("running database migrations", zap.String("driver", cfg.Driver))
	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnforceEnums && cfg.Driver == "postgres" {
		log.Info("applying enum check constraints")
		if err := applyEnumChecks(db); err != nil {
			log.Warn("failed to apply some enum constraints, continuing without them", zap.Error(err))
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// enumChecks lists the closed value sets of every enum column.
func enumChecks() map[string]map[string][]string {
	return map[string]map[string][]string{
		"machines": {
			"status": enumValues(model.MachineStatuses),
		},
		"parts": {
			"status": {string(model.PartInStock), string(model.PartLowStock), string(model.PartOutOfStock), string(model.PartDiscontinued)},
		},
		"sensors": {
			"type":   enumValues(model.SensorTypes),
			"status": {string(model.SensorActive), string(model.SensorInactive), string(model.SensorError), string(model.SensorCalibration)},
		},
		"employees": {
			"status": {string(model.EmployeeActive), string(model.EmployeeInactive), string(model.EmployeeVacation), string(model.EmployeeTerminated)},
		},
		"work_orders": {
			"maintenance_type": {string(model.MaintenancePreventive), string(model.MaintenanceCorrective), string(model.MaintenancePredictive), string(model.MaintenanceEmergency)},
			"priority":         {string(model.PriorityLow), string(model.PriorityMedium), string(model.PriorityHigh), string(model.PriorityCritical)},
			"status":           {string(model.WorkOrderPending), string(model.WorkOrderInProgress), string(model.WorkOrderCompleted), string(model.WorkOrderCancelled)},
		},
	}
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// enumCheckDDL renders one idempotent statement per enum column.
func enumCheckDDL() []string {
	var ddls []string
	for table, columns := range enumChecks() {
		for column, values := range columns {
			name := fmt.Sprintf("chk_%s_%s", table, column)
			quoted := make([]string, len(values))
			for i, v := range values {
				quoted[i] = "'" + v + "'"
			}
			ddls = append(ddls, fmt.Sprintf(
				"ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s, ADD CONSTRAINT %s CHECK (%s IN (%s));",
				table, name, name, column, strings.Join(quoted, ", ")))
		}
	}
	return ddls
}

func applyEnumChecks(db *gorm.DB) error {
	for _, ddl := range enumCheckDDL() {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
