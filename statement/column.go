package statement

import (
	"fmt"
	"strings"
)

// Column describes one column of a CreateTable or an AddColumn
// alteration. Type is a generic logical type name (string, number,
// boolean, date, datetime); each backend maps it to its own concrete
// column type.
type Column struct {
	Name          string
	Type          string
	Size          int
	Nullable      bool
	Default       string
	Check         string
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Index         bool
	ForeignKey    *ColumnForeignKey
}

// ColumnForeignKey describes a foreign key attached to a column
// definition. Neither CreateTable nor AlterTable's AddColumn renders
// it: columnDef emits no REFERENCES clause for this field.
type ColumnForeignKey struct {
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string
	OnUpdate        string
}

func quoteIdent(backend Backend, id string) string {
	if backend == MySQL {
		return fmt.Sprintf("`%s`", id)
	}
	return fmt.Sprintf("%q", id)
}

func mapDataType(backend Backend, genericType string, size int, autoIncrement, primaryKey bool) string {
	lt := strings.ToLower(genericType)
	switch backend {
	case Postgres:
		switch lt {
		case "string":
			if size > 0 {
				return fmt.Sprintf("VARCHAR(%d)", size)
			}
			return "TEXT"
		case "number":
			if autoIncrement {
				return "SERIAL"
			}
			return "INTEGER"
		case "boolean":
			return "BOOLEAN"
		case "date":
			return "DATE"
		case "datetime":
			return "TIMESTAMP"
		default:
			return genericType
		}
	case MySQL:
		switch lt {
		case "string":
			if size > 0 {
				return fmt.Sprintf("VARCHAR(%d)", size)
			}
			return "TEXT"
		case "number":
			return "INT"
		case "boolean":
			return "TINYINT(1)"
		case "date":
			return "DATE"
		case "datetime":
			return "DATETIME"
		default:
			return genericType
		}
	case SQLite:
		switch lt {
		case "string":
			if size > 0 {
				return fmt.Sprintf("VARCHAR(%d)", size)
			}
			return "TEXT"
		case "number":
			return "INTEGER"
		case "boolean":
			return "BOOLEAN"
		case "date":
			return "DATE"
		case "datetime":
			return "DATETIME"
		default:
			return genericType
		}
	default:
		return genericType
	}
}

func columnDef(backend Backend, col Column) string {
	var sb strings.Builder
	sb.WriteString(quoteIdent(backend, col.Name))
	sb.WriteString(" ")
	sb.WriteString(mapDataType(backend, col.Type, col.Size, col.AutoIncrement, col.PrimaryKey))
	if backend == MySQL && col.AutoIncrement {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.Default != "" {
		def := col.Default
		if strings.ToLower(col.Type) == "string" && !(strings.HasPrefix(def, "'") && strings.HasSuffix(def, "'")) {
			def = fmt.Sprintf("'%s'", def)
		}
		sb.WriteString(fmt.Sprintf(" DEFAULT %s", def))
	}
	if col.Check != "" {
		sb.WriteString(fmt.Sprintf(" CHECK (%s)", col.Check))
	}
	return sb.String()
}
