package store

import (
	"database/sql"
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "graphs: canonical merged knowledge graph payloads",
		SQL: `
CREATE TABLE graphs (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    payload    TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "questions: question-to-skill weight maps per graph",
		SQL: `
CREATE TABLE questions (
    id        TEXT NOT NULL,
    graph_id  TEXT NOT NULL,
    text      TEXT NOT NULL,
    skills    TEXT NOT NULL,
    weightage REAL NOT NULL DEFAULT 1.0,
    PRIMARY KEY (graph_id, id)
);

CREATE INDEX idx_questions_graph ON questions(graph_id);
`,
	},
	{
		Version:     3,
		Description: "attempts: immutable student submission log",
		SQL: `
CREATE TABLE attempts (
    id           TEXT PRIMARY KEY,
    graph_id     TEXT NOT NULL,
    student_id   TEXT NOT NULL,
    question_id  TEXT NOT NULL,
    is_correct   INTEGER NOT NULL,
    attempted_at INTEGER NOT NULL
);

CREATE INDEX idx_attempts_graph_student ON attempts(graph_id, student_id, attempted_at);
`,
	},
	{
		Version:     4,
		Description: "kp_mastery: per graph+student+skill mastery upserts",
		SQL: `
CREATE TABLE kp_mastery (
    graph_id         TEXT NOT NULL,
    student_id       TEXT NOT NULL,
    skill_id         TEXT NOT NULL,
    earned_points    REAL NOT NULL DEFAULT 0,
    max_points       REAL NOT NULL DEFAULT 0,
    raw_mastery      REAL NOT NULL DEFAULT 0,
    last_reviewed_at INTEGER,
    stability        REAL NOT NULL DEFAULT 1.0,
    retrieval_count  INTEGER NOT NULL DEFAULT 0,
    updated_at       INTEGER NOT NULL,
    PRIMARY KEY (graph_id, student_id, skill_id)
);
`,
	},
	{
		Version:     5,
		Description: "taxonomy: skills, subtopics, topics per graph",
		SQL: `
CREATE TABLE topics (
    id       TEXT NOT NULL,
    graph_id TEXT NOT NULL,
    name     TEXT NOT NULL,
    PRIMARY KEY (graph_id, id)
);

CREATE TABLE subtopics (
    id       TEXT NOT NULL,
    graph_id TEXT NOT NULL,
    name     TEXT NOT NULL,
    topic_id TEXT,
    PRIMARY KEY (graph_id, id)
);

CREATE TABLE skills (
    id          TEXT NOT NULL,
    graph_id    TEXT NOT NULL,
    name        TEXT NOT NULL,
    tier        TEXT NOT NULL,
    level       INTEGER NOT NULL DEFAULT 0,
    subtopic_id TEXT,
    PRIMARY KEY (graph_id, id)
);

CREATE INDEX idx_skills_graph ON skills(graph_id);
`,
	},
	{
		Version:     6,
		Description: "llm_events: generation request audit log",
		SQL: `
CREATE TABLE llm_events (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    purpose       TEXT NOT NULL,
    input_tokens  INTEGER NOT NULL DEFAULT 0,
    output_tokens INTEGER NOT NULL DEFAULT 0,
    latency_ms    INTEGER NOT NULL DEFAULT 0,
    success       INTEGER NOT NULL,
    error_message TEXT NOT NULL DEFAULT '',
    created_at    INTEGER NOT NULL
);
`,
	},
	{
		Version:     7,
		Description: "attempts: attempted_at from seconds to milliseconds",
		SQL: `
UPDATE attempts SET attempted_at = attempted_at * 1000;
`,
	},
}

// migrate applies any pending migrations inside transactions.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, strftime('%s','now'))`, m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
