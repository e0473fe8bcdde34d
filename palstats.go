// Package palstats is the Palworld strategy dashboard: three views
// (Stratégie de Combat, Gestion du Campement, Zones & Boss) computed from
// six cleaned CSV tables.
//
// Layout:
//
//	engine/    metric formulas, ranking, grouping, analytics and builders
//	schema/    CSV column discovery (dimension or measure)
//	helpers/   CSV parsing into engine tables
//	dataset/   the six tables: file or S3 source, store, lazy cache
//	views/     the three pages and the router that renders them
//	render/    PNG charts, HTML, XLSX, JSON/text/CSV output
//	server/    gin HTTP dashboard and the Lambda function URL adapter
//	config/    YAML + .env + PALSTATS_* configuration
//	logging/   zap structured logging
//	metrics/   Prometheus metrics
//
// The engine never mutates a loaded table; every derived column lives in a
// view layered over it.
package palstats
