package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scaffold generates the text of a new manifest file for name, picking
// a starter template from the tokens of the requested name (e.g.
// "create_users_table", "alter_orders_table", "drop_sessions_table"):
// the verb and trailing object-type token pick a template, everything
// else falls back to a bare skeleton.
func Scaffold(name string) string {
	versioned := fmt.Sprintf("%d_%s", timestamp(), name)
	tokens := strings.Split(name, "_")
	if len(tokens) < 2 {
		return defaultTemplate(versioned)
	}
	op := strings.ToLower(tokens[0])
	objType := ""
	if len(tokens) > 1 {
		last := strings.ToLower(tokens[len(tokens)-1])
		if last == "table" {
			objType = last
		}
	}
	var table string
	if objType == "table" {
		table = strings.Join(tokens[1:len(tokens)-1], "_")
	} else {
		table = strings.Join(tokens[1:], "_")
	}
	switch op {
	case "create":
		return createTableTemplate(versioned, table)
	case "alter":
		return alterTableTemplate(versioned, table)
	case "drop":
		return dropTableTemplate(versioned, table)
	default:
		return defaultTemplate(versioned)
	}
}

// WriteScaffold writes Scaffold(name)'s output to a new file under
// dir, named after the same timestamp-prefixed version Scaffold uses
// internally, and returns the path written.
func WriteScaffold(dir, name string) (string, error) {
	body := Scaffold(name)
	versioned := versionedName(body)
	path := filepath.Join(dir, versioned+".bcl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("manifest: create migration directory %q: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("manifest: write migration file %q: %w", path, err)
	}
	return path, nil
}

// versionedName recovers the versioned migration name Scaffold
// embedded in its own output's Migration block header, so WriteScaffold
// names the file after the exact same name the manifest declares.
func versionedName(body string) string {
	const prefix = `Migration "`
	start := strings.Index(body, prefix)
	if start < 0 {
		return fmt.Sprintf("%d_migration", timestamp())
	}
	start += len(prefix)
	end := strings.Index(body[start:], `"`)
	if end < 0 {
		return fmt.Sprintf("%d_migration", timestamp())
	}
	return body[start : start+end]
}

// timestamp is a seam for testability: real scaffolding calls
// time.Now().Unix(); nothing in this package's own tests depends on
// the literal value it returns.
var timestamp = func() int64 { return time.Now().Unix() }

func defaultTemplate(name string) string {
	return fmt.Sprintf(`Migration "%s" {
  Version = "1.0.0"
  Description = "New migration"
  Up {
    # Define migration operations here.
  }
  Down {
    # Define rollback operations here.
  }
}
`, name)
}

func createTableTemplate(name, table string) string {
	return fmt.Sprintf(`Migration "%s" {
  Version = "1.0.0"
  Description = "Create table %s."
  Up {
    CreateTable "%s" {
      if_not_exist = true
      Column "id" {
        type = "number"
        primary_key = true
        auto_increment = true
      }
      Column "created_at" {
        type = "datetime"
        default = "now()"
      }
      Column "updated_at" {
        type = "datetime"
        default = "now()"
      }
    }
  }
  Down {
    DropTable "%s" {
      if_exists = true
      cascade = true
    }
  }
}
`, name, table, table, table)
}

func alterTableTemplate(name, table string) string {
	return fmt.Sprintf(`Migration "%s" {
  Version = "1.0.0"
  Description = "Alter table %s."
  Up {
    AlterTable "%s" {
      # Define AddColumn/DropColumn/RenameColumn entries here.
    }
  }
  Down {
    # Define the inverse alteration here.
  }
}
`, name, table, table)
}

func dropTableTemplate(name, table string) string {
	return fmt.Sprintf(`Migration "%s" {
  Version = "1.0.0"
  Description = "Drop table %s."
  Up {
    DropTable "%s" {
      if_exists = true
      cascade = true
    }
  }
  Down {
    # Optionally recreate the table here.
  }
}
`, name, table, table)
}
