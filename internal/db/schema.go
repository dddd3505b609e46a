package db

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS staff (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    role       TEXT NOT NULL DEFAULT 'field' CHECK (role IN ('admin', 'coordinator', 'field')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS farmers (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    cluster    TEXT,
    code       TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_farmers_code_active
    ON farmers(code) WHERE deleted_at IS NULL AND code IS NOT NULL;

CREATE TABLE IF NOT EXISTS items (
    id             INTEGER PRIMARY KEY,
    name           TEXT NOT NULL,
    classification TEXT,
    code           TEXT,
    quantity       INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at     DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_code_active
    ON items(code) WHERE deleted_at IS NULL AND code IS NOT NULL;

CREATE TABLE IF NOT EXISTS disbursements (
    id           INTEGER PRIMARY KEY,
    item_id      INTEGER NOT NULL REFERENCES items(id),
    farmer_id    INTEGER NOT NULL REFERENCES farmers(id),
    staff_id     INTEGER NOT NULL REFERENCES staff(id),
    quantity     INTEGER NOT NULL CHECK (quantity > 0),
    disbursed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS returns (
    id              INTEGER PRIMARY KEY,
    disbursement_id INTEGER NOT NULL REFERENCES disbursements(id),
    item_id         INTEGER NOT NULL REFERENCES items(id),
    farmer_id       INTEGER NOT NULL REFERENCES farmers(id),
    quantity        INTEGER NOT NULL CHECK (quantity > 0),
    reason          TEXT,
    cluster         TEXT,
    status          TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'returned', 'on_hold', 'rejected')),
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assets (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    code       TEXT,
    condition  TEXT NOT NULL DEFAULT 'good' CHECK (condition IN ('good', 'maintenance', 'damaged')),
    available  INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_code_active
    ON assets(code) WHERE deleted_at IS NULL AND code IS NOT NULL;

CREATE TABLE IF NOT EXISTS asset_loans (
    id          INTEGER PRIMARY KEY,
    asset_id    INTEGER NOT NULL REFERENCES assets(id),
    farmer_id   INTEGER NOT NULL REFERENCES farmers(id),
    borrowed_at DATETIME NOT NULL,
    due_at      DATETIME NOT NULL,
    returned_at DATETIME,
    remarks     TEXT
);

CREATE INDEX IF NOT EXISTS idx_asset_loans_open
    ON asset_loans(asset_id) WHERE returned_at IS NULL;

CREATE TABLE IF NOT EXISTS requests (
    id           INTEGER PRIMARY KEY,
    requester_id INTEGER NOT NULL REFERENCES farmers(id),
    status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    decided_at   DATETIME
);

CREATE TABLE IF NOT EXISTS request_lines (
    id         INTEGER PRIMARY KEY,
    request_id INTEGER NOT NULL REFERENCES requests(id),
    item_id    INTEGER NOT NULL REFERENCES items(id),
    quantity   INTEGER NOT NULL CHECK (quantity > 0),
    position   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_request_lines_request
    ON request_lines(request_id);
`
