// Package airfetch is the Composition Root for the airfetch application.
//
// It connects the fetch-and-reconcile engine (Domain Layer) with the Airtable
// client and the vault store (Infrastructure Layer) using the Hexagonal
// Architecture pattern.
//
// Each configured source names an Airtable table view and a folder in the
// vault. A fetch pages through the view, keeps the records updated within the
// chosen window and mirrors them as notes: missing notes are created, hidden
// files are overwritten raw and existing notes are modified in place.
//
// Features:
//
//   - **Hexagonal Architecture**: the engine only sees ports (`core.FileStore`, `core.RecordFetcher`).
//   - **Filesystem + Git**: notes land on disk; versioned vaults get one commit per run.
//   - **Run Ledger**: every run is recorded in a SQLite history inside the vault.
//   - **Secret References**: API keys come from env, SSM Parameter Store or files.
//
// Usage:
//
//	app, err := airfetch.New("./vault",
//		airfetch.WithVersioning(true),
//		airfetch.WithLogger(logger),
//	)
//	defer app.Close()
//
//	report, err := app.Engine.FetchWithFilter(ctx, src, core.FilterWeek)
package airfetch
