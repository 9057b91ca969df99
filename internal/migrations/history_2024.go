package migrations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var preferenceRangeColumns = []Column{
	nullable("max_bedrooms", "integer"),
	nullable("max_bathrooms", "integer"),
	nullable("building_style", "text"),
	nullable("designer_furniture", "boolean"),
	nullable("house_shares", "varchar"),
	nullable("date_property_added", "varchar"),
}

var addNewPreferencesFields = Migration{
	Timestamp: 1735420000000,
	Name:      "AddNewPreferencesFields",
	Up: func(tx *gorm.DB) error {
		for _, c := range preferenceRangeColumns {
			if err := ensureColumn(tx, "preferences", c); err != nil {
				return err
			}
		}
		if err := renameColumnIfExists(tx, "preferences", "bedrooms", "min_bedrooms"); err != nil {
			return err
		}
		return renameColumnIfExists(tx, "preferences", "bathrooms", "min_bathrooms")
	},
	Down: func(tx *gorm.DB) error {
		if err := renameColumnIfExists(tx, "preferences", "min_bathrooms", "bathrooms"); err != nil {
			return err
		}
		if err := renameColumnIfExists(tx, "preferences", "min_bedrooms", "bedrooms"); err != nil {
			return err
		}
		for i := len(preferenceRangeColumns) - 1; i >= 0; i-- {
			if err := dropColumnIfExists(tx, "preferences", preferenceRangeColumns[i].Name); err != nil {
				return err
			}
		}
		return nil
	},
}

var userContactColumns = []Column{
	nullable("phone", "varchar"),
	nullable("date_of_birth", "date"),
	nullable("nationality", "varchar"),
}

var addUserContactFields = Migration{
	Timestamp: 1735480000000,
	Name:      "AddUserContactFields",
	Up: func(tx *gorm.DB) error {
		for _, c := range userContactColumns {
			if err := ensureColumn(tx, "users", c); err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		for _, c := range userContactColumns {
			if err := dropColumnIfExists(tx, "users", c.Name); err != nil {
				return err
			}
		}
		return nil
	},
}

// lifestyleRow carries the lifestyle fields of one user or preferences row.
type lifestyleRow struct {
	ID                     string
	UserID                 string
	Roles                  *string
	Hobbies                *string
	IdealLivingEnvironment *string
	Pets                   *string
	Smoker                 *bool
	AdditionalInfo         *string
}

func (r lifestyleRow) empty() bool {
	return r.Hobbies == nil && r.IdealLivingEnvironment == nil && r.Pets == nil &&
		r.Smoker == nil && r.AdditionalInfo == nil
}

func (r lifestyleRow) values() map[string]interface{} {
	return map[string]interface{}{
		"hobbies":                  r.Hobbies,
		"ideal_living_environment": r.IdealLivingEnvironment,
		"pets":                     r.Pets,
		"smoker":                   r.Smoker,
		"additional_info":          r.AdditionalInfo,
	}
}

const lifestyleSelect = "hobbies, ideal_living_environment, pets, smoker, additional_info"

// Lifestyle fields are copied from users to preferences for everyone whose
// roles are not exactly "operator". The users columns stay behind as a legacy
// copy that the application no longer maps.
var movePersonalFieldsToPreferences = Migration{
	Timestamp: 1735490000000,
	Name:      "MovePersonalFieldsToPreferences",
	Up: func(tx *gorm.DB) error {
		// Preferences already owning the fields means the copy ran before;
		// copying again would overwrite later edits with the legacy values.
		moved, err := hasColumn(tx, "preferences", "hobbies")
		if err != nil {
			return err
		}
		for _, c := range lifestyleColumns {
			if err := ensureColumn(tx, "preferences", c); err != nil {
				return err
			}
		}
		if moved {
			return nil
		}
		legacy, err := hasColumn(tx, "users", "hobbies")
		if err != nil || !legacy {
			return err
		}

		var users []lifestyleRow
		if err := tx.Table("users").Select("id, roles, " + lifestyleSelect).Find(&users).Error; err != nil {
			return fmt.Errorf("read user lifestyle fields: %w", err)
		}
		var prefs []lifestyleRow
		if err := tx.Table("preferences").Select("id, user_id").Find(&prefs).Error; err != nil {
			return fmt.Errorf("read preferences: %w", err)
		}
		prefByUser := make(map[string]string, len(prefs))
		for _, p := range prefs {
			prefByUser[p.UserID] = p.ID
		}

		now := time.Now()
		for _, u := range users {
			if u.Roles != nil && *u.Roles == "operator" {
				continue
			}
			if prefID, ok := prefByUser[u.ID]; ok {
				if err := tx.Table("preferences").Where("id = ?", prefID).Updates(u.values()).Error; err != nil {
					return fmt.Errorf("copy lifestyle fields of %s: %w", u.ID, err)
				}
				continue
			}
			if u.empty() {
				continue
			}
			row := u.values()
			row["id"] = uuid.NewString()
			row["user_id"] = u.ID
			row["created_at"] = now
			row["updated_at"] = now
			if err := tx.Table("preferences").Create(row).Error; err != nil {
				return fmt.Errorf("create preferences for %s: %w", u.ID, err)
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		for _, c := range lifestyleColumns {
			if err := ensureColumn(tx, "users", c); err != nil {
				return err
			}
		}
		hasPrefs, err := hasColumn(tx, "preferences", "hobbies")
		if err != nil || !hasPrefs {
			return err
		}

		var prefs []lifestyleRow
		if err := tx.Table("preferences").Select("user_id, " + lifestyleSelect).Find(&prefs).Error; err != nil {
			return fmt.Errorf("read preferences lifestyle fields: %w", err)
		}
		for _, p := range prefs {
			// COALESCE(preferences.x, users.x)
			set := make(map[string]interface{})
			for col, v := range p.values() {
				if !isNilValue(v) {
					set[col] = v
				}
			}
			if len(set) == 0 {
				continue
			}
			if err := tx.Table("users").Where("id = ?", p.UserID).Updates(set).Error; err != nil {
				return fmt.Errorf("restore lifestyle fields of %s: %w", p.UserID, err)
			}
		}

		for _, c := range lifestyleColumns {
			if err := dropColumnIfExists(tx, "preferences", c.Name); err != nil {
				return err
			}
		}
		return nil
	},
}

func isNilValue(v interface{}) bool {
	switch p := v.(type) {
	case *string:
		return p == nil
	case *bool:
		return p == nil
	}
	return v == nil
}

var createPropertyMediaTable = Migration{
	Timestamp: 1735820000000,
	Name:      "CreatePropertyMediaTable",
	Up: func(tx *gorm.DB) error {
		if err := ensureTable(tx, propertyMediaTable.Without("url")); err != nil {
			return err
		}
		for _, ix := range propertyMediaIndexes {
			if err := ensureIndex(tx, ix); err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		for _, ix := range propertyMediaIndexes {
			if err := dropIndexIfExists(tx, ix.Name); err != nil {
				return err
			}
		}
		return dropTableIfExists(tx, "property_media")
	},
}
