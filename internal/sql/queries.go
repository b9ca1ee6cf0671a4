package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_source_file.sql
var RegisterSourceFile string

//go:embed queries/lookup_source_file.sql
var LookupSourceFile string

//go:embed queries/update_source_status.sql
var UpdateSourceStatus string

//go:embed queries/publish_records.sql
var PublishRecords string

//go:embed queries/delete_previous_records.sql
var DeletePreviousRecords string

//go:embed queries/upsert_diagnosis_codes.sql
var UpsertDiagnosisCodes string

//go:embed queries/upsert_sections.sql
var UpsertSections string

//go:embed queries/mark_loaded.sql
var MarkLoaded string

//go:embed queries/delete_stage_batch.sql
var DeleteStageBatch string
