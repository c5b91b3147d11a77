package load

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/coursework_pulse/ETL/models"
	"github.com/LilVoxy/coursework_pulse/ETL/utils"
)

// Схемы девяти целевых таблиц. Внешние ключи между семействами
// не создаются - таблицы соединяются на лету по (state, year, quarter).
var tableSchemas = map[string]string{
	models.TableAggregatedTransaction: `
	CREATE TABLE IF NOT EXISTS aggregated_transaction (
		id INT AUTO_INCREMENT PRIMARY KEY,
		state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		txn_type VARCHAR(100) NOT NULL,
		txn_count BIGINT NOT NULL,
		txn_amount DOUBLE NOT NULL,
		INDEX idx_state_year_quarter (state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableAggregatedUser: `
	CREATE TABLE IF NOT EXISTS aggregated_user (
		id INT AUTO_INCREMENT PRIMARY KEY,
		state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		device_brand VARCHAR(100) NULL,
		device_user_count BIGINT NULL,
		device_percentage DOUBLE NULL,
		total_registered_users BIGINT NULL,
		total_app_opens BIGINT NULL,
		INDEX idx_state_year_quarter (state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableAggregatedInsurance: `
	CREATE TABLE IF NOT EXISTS aggregated_insurance (
		id INT AUTO_INCREMENT PRIMARY KEY,
		state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		ins_count BIGINT NOT NULL,
		ins_amount DOUBLE NOT NULL,
		INDEX idx_state_year_quarter (state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableMapTransaction: `
	CREATE TABLE IF NOT EXISTS map_transaction (
		id INT AUTO_INCREMENT PRIMARY KEY,
		state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		district VARCHAR(100) NOT NULL,
		txn_count BIGINT NOT NULL,
		txn_amount DOUBLE NOT NULL,
		INDEX idx_state_year_quarter (state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableMapUser: `
	CREATE TABLE IF NOT EXISTS map_user (
		id INT AUTO_INCREMENT PRIMARY KEY,
		state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		district VARCHAR(100) NOT NULL,
		registered_users BIGINT NOT NULL,
		app_opens BIGINT NOT NULL,
		INDEX idx_state_year_quarter (state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableMapInsurance: `
	CREATE TABLE IF NOT EXISTS map_insurance (
		id INT AUTO_INCREMENT PRIMARY KEY,
		state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		district VARCHAR(100) NOT NULL,
		ins_count BIGINT NOT NULL,
		ins_amount DOUBLE NOT NULL,
		INDEX idx_state_year_quarter (state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableTopTransaction: `
	CREATE TABLE IF NOT EXISTS top_transaction (
		id INT AUTO_INCREMENT PRIMARY KEY,
		parent_state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		entity_type VARCHAR(20) NOT NULL,
		entity_name VARCHAR(100) NOT NULL,
		txn_count BIGINT NOT NULL,
		txn_amount DOUBLE NOT NULL,
		INDEX idx_state_year_quarter (parent_state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableTopUser: `
	CREATE TABLE IF NOT EXISTS top_user (
		id INT AUTO_INCREMENT PRIMARY KEY,
		parent_state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		entity_type VARCHAR(20) NOT NULL,
		entity_name VARCHAR(100) NOT NULL,
		registered_users BIGINT NOT NULL,
		INDEX idx_state_year_quarter (parent_state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,

	models.TableTopInsurance: `
	CREATE TABLE IF NOT EXISTS top_insurance (
		id INT AUTO_INCREMENT PRIMARY KEY,
		parent_state VARCHAR(100) NOT NULL,
		year INT NOT NULL,
		quarter INT NOT NULL,
		entity_type VARCHAR(20) NOT NULL,
		entity_name VARCHAR(100) NOT NULL,
		ins_count BIGINT NOT NULL,
		ins_amount DOUBLE NOT NULL,
		INDEX idx_state_year_quarter (parent_state, year, quarter)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
}

// Порядок создания и загрузки таблиц
var tableOrder = []string{
	models.TableAggregatedTransaction,
	models.TableAggregatedUser,
	models.TableAggregatedInsurance,
	models.TableMapTransaction,
	models.TableMapUser,
	models.TableMapInsurance,
	models.TableTopTransaction,
	models.TableTopUser,
	models.TableTopInsurance,
}

// EnsureSchema создает девять целевых таблиц, если они не существуют
func EnsureSchema(db *sql.DB, logger *utils.ETLLogger) error {
	for _, table := range tableOrder {
		if _, err := db.Exec(tableSchemas[table]); err != nil {
			return fmt.Errorf("ошибка создания таблицы %s: %w", table, err)
		}
	}

	logger.Info("Структура базы данных проверена: %d таблиц", len(tableOrder))
	return nil
}
