package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/logging"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and ensures the schema the handlers rely on.
func Init(databaseURL string) error {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return err
	}
	if err = pool.Ping(context.Background()); err != nil {
		return err
	}
	Conn = pool

	logging.L.Info("connected to postgres")

	ensureStaffTable()
	ensureUserTables()
	ensureProjectTables()
	ensureDomainTables()
	ensureOrderTables()
	ensurePayoutTable()
	ensureSupportTables()
	ensureCampaignTables()

	return nil
}

// Close releases the pool.
func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

func exec(ddl string) {
	if _, err := Conn.Exec(context.Background(), ddl); err != nil {
		logging.L.Error("schema ensure failed", zap.Error(err))
	}
}

func ensureStaffTable() {
	exec(`
		CREATE TABLE IF NOT EXISTS staff_users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'support' CHECK (role IN ('admin','support')),
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
}

func ensureUserTables() {
	exec(`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			plan TEXT NOT NULL DEFAULT 'free',
			is_active BOOLEAN DEFAULT TRUE,
			is_publisher BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`
		CREATE TABLE IF NOT EXISTS subscription_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			plan TEXT NOT NULL,
			amount BIGINT NOT NULL DEFAULT 0,
			started_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			ended_at TIMESTAMPTZ NULL
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_subscription_history_user ON subscription_history(user_id)`)
}

func ensureProjectTables() {
	exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			site_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','disabled')),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`
		CREATE TABLE IF NOT EXISTS links (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			target_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'live' CHECK (status IN ('live','lost','pending')),
			last_checked_at TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_links_project ON links(project_id)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_links_user ON links(user_id)`)
	exec(`
		CREATE TABLE IF NOT EXISTS keywords (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			phrase TEXT NOT NULL,
			position INTEGER NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_keywords_project ON keywords(project_id)`)
}

func ensureDomainTables() {
	exec(`
		CREATE TABLE IF NOT EXISTS domains (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			domain_name TEXT UNIQUE NOT NULL,
			owner_id UUID NULL REFERENCES users(id) ON DELETE SET NULL,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','suspended','delisted')),
			domain_rating INTEGER NULL,
			domain_authority INTEGER NULL,
			spam_score INTEGER NULL,
			organic_traffic BIGINT NULL,
			offerings JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_domains_name ON domains(lower(domain_name))`)
}

func ensureOrderTables() {
	exec(`
		CREATE TABLE IF NOT EXISTS marketplace_orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			publisher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			domain_id UUID NULL REFERENCES domains(id) ON DELETE SET NULL,
			total_price BIGINT NOT NULL DEFAULT 0,
			platform_fee BIGINT NOT NULL DEFAULT 0,
			publisher_earnings BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN (
				'pending','in_progress','delivered','completed','cancelled','refunded','disputed'
			)),
			reason TEXT NULL,
			refund_amount BIGINT NULL,
			accepted_at TIMESTAMPTZ NULL,
			delivered_at TIMESTAMPTZ NULL,
			completed_at TIMESTAMPTZ NULL,
			cancelled_at TIMESTAMPTZ NULL,
			refunded_at TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_marketplace_orders_status ON marketplace_orders(status)`)
	exec(`
		CREATE TABLE IF NOT EXISTS press_release_orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			buyer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			publisher_id UUID NULL REFERENCES users(id) ON DELETE SET NULL,
			domain_id UUID NULL REFERENCES domains(id) ON DELETE SET NULL,
			total_price BIGINT NOT NULL DEFAULT 0,
			platform_fee BIGINT NOT NULL DEFAULT 0,
			publisher_earnings BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending_payment' CHECK (status IN (
				'pending_payment','paid','article_writing','article_submitted',
				'article_revision_requested','article_approved','submitted',
				'revision_requested','completed','cancelled','refunded',
				'refund_requested','disputed','rejected'
			)),
			request_content_writing BOOLEAN NOT NULL DEFAULT FALSE,
			article_doc_url TEXT NULL,
			published_url TEXT NULL,
			article_revision_count INTEGER NOT NULL DEFAULT 0,
			revision_count INTEGER NOT NULL DEFAULT 0,
			revision_reason TEXT NULL,
			rejection_reason TEXT NULL,
			cancel_reason TEXT NULL,
			refund_reason TEXT NULL,
			refunded_amount BIGINT NULL,
			paid_at TIMESTAMPTZ NULL,
			article_started_at TIMESTAMPTZ NULL,
			article_submitted_at TIMESTAMPTZ NULL,
			article_approved_at TIMESTAMPTZ NULL,
			submitted_at TIMESTAMPTZ NULL,
			completed_at TIMESTAMPTZ NULL,
			cancelled_at TIMESTAMPTZ NULL,
			refunded_at TIMESTAMPTZ NULL,
			rejected_at TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_press_release_orders_status ON press_release_orders(status)`)
}

// PayoutTableDDL is shared with the payouts package tests, which pin the
// handler queries to the columns this schema actually declares.
const PayoutTableDDL = `
	CREATE TABLE IF NOT EXISTS payouts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		publisher_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount BIGINT NOT NULL,
		method TEXT NOT NULL DEFAULT 'bank_transfer',
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','paid','failed')),
		transaction_ref TEXT NULL,
		failure_reason TEXT NULL,
		requested_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		paid_at TIMESTAMPTZ NULL,
		failed_at TIMESTAMPTZ NULL
	)`

func ensurePayoutTable() {
	exec(PayoutTableDDL)
	exec(`CREATE INDEX IF NOT EXISTS idx_payouts_status ON payouts(status)`)
}

func ensureSupportTables() {
	exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','in_progress','resolved','archived')),
			note TEXT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`
		CREATE TABLE IF NOT EXISTS bug_reports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			reporter_id UUID NULL REFERENCES users(id) ON DELETE SET NULL,
			email TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL DEFAULT 'low' CHECK (severity IN ('low','medium','high','critical')),
			status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','investigating','resolved','closed')),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
}

func ensureCampaignTables() {
	exec(`
		CREATE TABLE IF NOT EXISTS indexer_campaigns (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running' CHECK (status IN ('running','paused','finished')),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	exec(`
		CREATE TABLE IF NOT EXISTS campaign_links (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			campaign_id UUID NOT NULL REFERENCES indexer_campaigns(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			indexed BOOLEAN NOT NULL DEFAULT FALSE,
			checked_at TIMESTAMPTZ NULL
		)`)
	exec(`CREATE INDEX IF NOT EXISTS idx_campaign_links_campaign ON campaign_links(campaign_id)`)
}
