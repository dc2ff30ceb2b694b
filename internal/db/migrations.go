package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'project_status') THEN
			CREATE TYPE project_status AS ENUM ('DRAFT', 'ACTIVE', 'COMPLETED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		status project_status NOT NULL DEFAULT 'DRAFT',
		project_type VARCHAR(32) NOT NULL,
		villa_category VARCHAR(32),
		contract_type VARCHAR(32) NOT NULL,
		internal_code VARCHAR(64) NOT NULL,
		contract_classification VARCHAR(32),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_projects_internal_code ON projects (internal_code);`,
	`CREATE TABLE IF NOT EXISTS site_plans (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		plan_number VARCHAR(64) NOT NULL,
		issue_date DATE,
		municipality VARCHAR(128),
		land_area_m2 NUMERIC(12,2),
		plot_number VARCHAR(64),
		file_url TEXT,
		file_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_site_plans_project ON site_plans (project_id);`,
	`CREATE TABLE IF NOT EXISTS site_plan_owners (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		site_plan_id UUID NOT NULL REFERENCES site_plans(id) ON DELETE CASCADE,
		owner_name_ar VARCHAR(255) NOT NULL,
		owner_name_en VARCHAR(255),
		nationality VARCHAR(64),
		id_number VARCHAR(64),
		id_issue_date DATE,
		id_expiry_date DATE,
		id_file_url TEXT,
		id_file_name VARCHAR(255),
		right_hold_type VARCHAR(32),
		share_percent NUMERIC(5,2) NOT NULL,
		share_possession VARCHAR(128),
		phone VARCHAR(32),
		email VARCHAR(255),
		is_authorized BOOLEAN NOT NULL DEFAULT FALSE,
		position INT NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_site_plan_owners_plan ON site_plan_owners (site_plan_id);`,
	`CREATE TABLE IF NOT EXISTS licenses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		license_number VARCHAR(64) NOT NULL,
		issue_date DATE,
		expiry_date DATE,
		issued_by VARCHAR(128),
		file_url TEXT,
		file_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_licenses_project ON licenses (project_id);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		contract_classification VARCHAR(32),
		sign_date DATE,
		duration_months INT,
		total_project_value NUMERIC(18,2),
		total_bank_value NUMERIC(18,2),
		total_owner_value NUMERIC(18,2),
		main_contract_url TEXT,
		main_contract_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contracts_project ON contracts (project_id);`,
	`CREATE TABLE IF NOT EXISTS contract_owners (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		owner_name_ar VARCHAR(255) NOT NULL,
		id_number VARCHAR(64),
		phone VARCHAR(32),
		email VARCHAR(255),
		is_authorized BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_owners_contract ON contract_owners (contract_id);`,
	`CREATE TABLE IF NOT EXISTS contract_attachments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		slot_kind VARCHAR(16) NOT NULL,
		attachment_type VARCHAR(32) NOT NULL,
		attachment_date DATE,
		notes TEXT,
		price NUMERIC(18,2),
		file_url TEXT,
		file_name VARCHAR(255),
		position INT NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_attachments_contract ON contract_attachments (contract_id);`,
	`CREATE TABLE IF NOT EXISTS awardings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		contractor_name VARCHAR(255) NOT NULL,
		contractor_cr VARCHAR(64),
		award_date DATE,
		award_value NUMERIC(18,2),
		file_url TEXT,
		file_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_awardings_project ON awardings (project_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
