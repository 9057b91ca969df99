package migrations

import (
	"fmt"

	"gorm.io/gorm"
)

var addURLToPropertyMedia = Migration{
	Timestamp: 1752067887898,
	Name:      "AddUrlToPropertyMedia",
	Up: func(tx *gorm.DB) error {
		url, _ := propertyMediaTable.column("url")
		return ensureColumn(tx, "property_media", url)
	},
	Down: func(tx *gorm.DB) error {
		return dropColumnIfExists(tx, "property_media", "url")
	},
}

var makeRolesNullable = Migration{
	Timestamp: 1752670000000,
	Name:      "MakeRoleNullable",
	Up: func(tx *gorm.DB) error {
		roles, _ := usersTable.column("roles")
		return alterColumn(tx, "users", roles)
	},
	Down: func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE "users" SET "roles" = 'tenant' WHERE "roles" IS NULL`).Error; err != nil {
			return fmt.Errorf("backfill roles: %w", err)
		}
		return alterColumn(tx, "users", rolesNotNull)
	},
}

var coordinateColumns = []Column{
	nullable("lat", "decimal(10,7)"),
	nullable("lng", "decimal(10,7)"),
}

var addCoordinatesToProperties = Migration{
	Timestamp: 1755000000000,
	Name:      "AddCoordinatesToProperties",
	Up: func(tx *gorm.DB) error {
		for _, c := range coordinateColumns {
			if err := ensureColumn(tx, "properties", c); err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		for _, c := range coordinateColumns {
			if err := dropColumnIfExists(tx, "properties", c.Name); err != nil {
				return err
			}
		}
		return nil
	},
}

// createCompleteSchema ensures the final shape of every table and its lookup
// indexes, so a database that skipped or half-ran earlier steps converges.
// Reverting it only drops the lookup indexes it owns; tables and columns
// belong to the earlier steps.
var createCompleteSchema = Migration{
	Timestamp: 1755000000000,
	Name:      "CreateCompleteSchema",
	Up: func(tx *gorm.DB) error {
		for _, t := range []Table{
			usersTable,
			preferencesTable,
			tenantProfilesTable,
			operatorProfilesTable,
			propertiesTable,
			propertyMediaTable,
			favouritesTable,
			shortlistTable,
		} {
			if err := ensureTable(tx, t); err != nil {
				return err
			}
		}
		for _, ix := range completeSchemaIndexes {
			if err := ensureIndex(tx, ix); err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		for _, ix := range completeSchemaIndexes {
			if ix.Table == "property_media" {
				continue
			}
			if err := dropIndexIfExists(tx, ix.Name); err != nil {
				return err
			}
		}
		return nil
	},
}

// All returns the full migration history in application order.
func All() []Migration {
	return []Migration{
		createInitialSchema,
		addNewPreferencesFields,
		addUserContactFields,
		movePersonalFieldsToPreferences,
		createPropertyMediaTable,
		addURLToPropertyMedia,
		makeRolesNullable,
		addCoordinatesToProperties,
		createCompleteSchema,
	}
}
