// Package storage содержит миграции схемы базы данных
package storage

import (
	"context"
	"database/sql"
)

// schemaSQL схема хранилища hold'ов и бронирований.
//
// Эксклюзивность слота обеспечивается частичным уникальным индексом
// ux_slot_holds_active_slot: на один ключ слота (station_id, slot_date, slot_time)
// может существовать не более одного hold в нетерминальном статусе. Индекс -
// единственный арбитр при конкурентном создании hold'ов; нарушение приходит
// из БД как unique_violation (23505).
//
// Уникальность bookings.hold_id гарантирует, что hold конвертируется
// в бронирование не более одного раза.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS slot_holds (
	id BIGSERIAL PRIMARY KEY,
	token TEXT NOT NULL UNIQUE,
	version BIGINT NOT NULL DEFAULT 1,

	station_id BIGINT NOT NULL,
	slot_date DATE NOT NULL,
	slot_time TIME NOT NULL,

	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT NOT NULL DEFAULT '',
	guest_count INT NOT NULL,

	status TEXT NOT NULL,
	deposit_amount_cents BIGINT NOT NULL,

	signing_deadline_at TIMESTAMPTZ NOT NULL,
	signing_warning_sent_at TIMESTAMPTZ,
	agreement_signed_at TIMESTAMPTZ,
	signed_agreement_id BIGINT,

	payment_deadline_at TIMESTAMPTZ,
	payment_warning_sent_at TIMESTAMPTZ,
	deposit_paid_at TIMESTAMPTZ,
	deposit_payment_method TEXT,
	deposit_payment_reference TEXT,

	cancellation_reason TEXT,
	booking_id BIGINT,

	token_expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS ux_slot_holds_active_slot
	ON slot_holds (station_id, slot_date, slot_time)
	WHERE status IN ('pending_signature', 'pending_deposit');

CREATE INDEX IF NOT EXISTS idx_slot_holds_status_signing_deadline
	ON slot_holds (status, signing_deadline_at);
CREATE INDEX IF NOT EXISTS idx_slot_holds_status_payment_deadline
	ON slot_holds (status, payment_deadline_at);
CREATE INDEX IF NOT EXISTS idx_slot_holds_station_date
	ON slot_holds (station_id, slot_date);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	hold_id BIGINT NOT NULL UNIQUE REFERENCES slot_holds(id),

	station_id BIGINT NOT NULL,
	slot_date DATE NOT NULL,
	slot_time TIME NOT NULL,

	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT NOT NULL DEFAULT '',
	guest_count INT NOT NULL,

	deposit_amount_cents BIGINT NOT NULL,
	deposit_payment_method TEXT NOT NULL,
	deposit_payment_reference TEXT NOT NULL,

	status TEXT NOT NULL DEFAULT 'confirmed',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate применяет схему к базе данных (идемпотентно)
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
