package database

import "context"

// schema is applied on startup; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id             BIGSERIAL PRIMARY KEY,
    status         TEXT NOT NULL DEFAULT 'PENDING',
    payment_status TEXT NOT NULL DEFAULT 'PENDING',
    cod            BOOLEAN NOT NULL DEFAULT FALSE,
    total_price    NUMERIC(18,2) NOT NULL DEFAULT 0,
    shipping_cost  NUMERIC(18,2) NOT NULL DEFAULT 0,
    coupon_amount  NUMERIC(18,2) NOT NULL DEFAULT 0,
    settled        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_items (
    id            BIGSERIAL PRIMARY KEY,
    order_id      BIGINT NOT NULL REFERENCES orders(id),
    seller_id     BIGINT NOT NULL,
    unit_price    NUMERIC(18,2) NOT NULL,
    discount      NUMERIC(18,2) NOT NULL DEFAULT 0,
    discount_type TEXT NOT NULL DEFAULT 'FLAT',
    quantity      INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS seller_wallets (
    seller_id  BIGINT PRIMARY KEY,
    balance    NUMERIC(18,2) NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS wallet_ledger (
    id            BIGSERIAL PRIMARY KEY,
    seller_id     BIGINT NOT NULL,
    entry_type    TEXT NOT NULL,
    amount        NUMERIC(18,2) NOT NULL CHECK (amount > 0),
    balance_after NUMERIC(18,2) NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    ref_table     TEXT,
    ref_id        BIGINT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_wallet_ledger_seller ON wallet_ledger(seller_id, id DESC);
-- one settlement credit per (order, seller): retried deliveries hit this, not the balance
CREATE UNIQUE INDEX IF NOT EXISTS uq_wallet_ledger_ref
    ON wallet_ledger(ref_table, ref_id, seller_id) WHERE ref_table IS NOT NULL;

CREATE TABLE IF NOT EXISTS withdrawal_requests (
    id         BIGSERIAL PRIMARY KEY,
    seller_id  BIGINT NOT NULL,
    amount     NUMERIC(18,2) NOT NULL CHECK (amount > 0),
    status     TEXT NOT NULL DEFAULT 'PENDING',
    admin_note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    decided_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_withdrawals_seller ON withdrawal_requests(seller_id, id DESC);
`

func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, schema)
	return err
}
