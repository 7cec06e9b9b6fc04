package migrate

import (
	"context"

	"github.com/makpal80/avtoray/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, pg_trgm
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateUpdatedAtTrigger: true,
	}
}

type step struct {
	name string
	sql  string
}

var updatedAtTriggers = []step{
	{"set_updated_at()", `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;`},
	{"trg_users_updated", `
DROP TRIGGER IF EXISTS trg_users_updated ON users;
CREATE TRIGGER trg_users_updated BEFORE UPDATE ON users
FOR EACH ROW EXECUTE FUNCTION set_updated_at();`},
	{"trg_products_updated", `
DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();`},
	{"trg_orders_updated", `
DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();`},
}

var checks = []step{
	{"chk_orders_status_allowed", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','approved','rejected'));`},
	{"chk_orders_payment_method_allowed", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_payment_method_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_payment_method_allowed
  CHECK (payment_method IN ('cash','bank','installment'));`},
	{"chk_orders_amounts_non_negative", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_amounts_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_amounts_non_negative
  CHECK (total_amount >= 0 AND final_amount >= 0 AND product_discount_amount >= 0
     AND customer_discount_amount >= 0 AND surcharge_amount >= 0);`},
	{"chk_order_lines_quantity_gt_zero", `
ALTER TABLE order_lines DROP CONSTRAINT IF EXISTS chk_order_lines_quantity_gt_zero;
ALTER TABLE order_lines ADD CONSTRAINT chk_order_lines_quantity_gt_zero CHECK (quantity > 0);`},
	{"chk_order_lines_prices_non_negative", `
ALTER TABLE order_lines DROP CONSTRAINT IF EXISTS chk_order_lines_prices_non_negative;
ALTER TABLE order_lines ADD CONSTRAINT chk_order_lines_prices_non_negative
  CHECK (original_price >= 0 AND discounted_unit_price >= 0 AND line_total >= 0);`},
	{"chk_products_price_non_negative", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative CHECK (price >= 0);`},
	{"chk_products_discount_range", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_discount_range;
ALTER TABLE products ADD CONSTRAINT chk_products_discount_range
  CHECK (discount_percent BETWEEN 0 AND 100);`},
	{"chk_users_discount_range", `
ALTER TABLE users DROP CONSTRAINT IF EXISTS chk_users_discount_range;
ALTER TABLE users ADD CONSTRAINT chk_users_discount_range
  CHECK (discount_percent BETWEEN 0 AND 100 AND orders_count >= 0);`},
}

var indexes = []step{
	{"ux_users_phone", `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_phone ON users (phone);`},
	{"ux_orders_user_number", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_user_number ON orders (user_id, user_order_number);`},
	{"ix_orders_user_created", `
CREATE INDEX IF NOT EXISTS ix_orders_user_created ON orders (user_id, created_at DESC);`},
	{"ix_orders_status_created", `
CREATE INDEX IF NOT EXISTS ix_orders_status_created ON orders (status, created_at DESC);`},
	{"ix_order_lines_order_position", `
CREATE INDEX IF NOT EXISTS ix_order_lines_order_position ON order_lines (order_id, position);`},
}

// trigram-индексы нужны только при наличии pg_trgm
var trigramIndexes = []step{
	{"ix_users_name_trgm", `
CREATE INDEX IF NOT EXISTS ix_users_name_trgm ON users USING gin (lower(name) gin_trgm_ops);`},
	{"ix_products_name_trgm", `
CREATE INDEX IF NOT EXISTS ix_products_name_trgm ON products USING gin (lower(name) gin_trgm_ops);`},
}

func run(db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Error("Не удалось выполнить шаг миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных")
	db = db.WithContext(ctx)

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := run(db, log, []step{
			{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
			{"pg_trgm", `CREATE EXTENSION IF NOT EXISTS pg_trgm`},
		}); err != nil {
			return err
		}
		log.Info("Расширения PostgreSQL успешно созданы")
	}

	log.Info("Создание таблиц")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderLine{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := run(db, log, updatedAtTriggers); err != nil {
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := run(db, log, checks); err != nil {
			return err
		}
		log.Info("CHECK-ограничения успешно созданы")
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		if err := run(db, log, indexes); err != nil {
			return err
		}
		if opt.CreateExtensions {
			if err := run(db, log, trigramIndexes); err != nil {
				return err
			}
		}
		log.Info("Индексы успешно созданы")
	}

	log.Info("Миграция базы данных успешно завершена")
	return nil
}
