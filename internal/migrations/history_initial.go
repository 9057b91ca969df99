package migrations

import "gorm.io/gorm"

// Shape of the first release: lifestyle fields on users, roles required,
// preferences with a single bedrooms/bathrooms bound, no coordinates.
var (
	initialUsersTable = usersTable.
		Without("phone", "date_of_birth", "nationality").
		With(rolesNotNull).
		With(lifestyleColumns...)

	initialPreferencesTable = preferencesTable.
		Without(
			"max_bedrooms", "max_bathrooms", "building_style", "designer_furniture",
			"house_shares", "date_property_added", "min_bedrooms", "min_bathrooms",
			"hobbies", "ideal_living_environment", "pets", "smoker", "additional_info",
		).
		With(nullable("bedrooms", "integer"), nullable("bathrooms", "integer"))

	initialPropertiesTable = propertiesTable.Without("lat", "lng")
)

var createInitialSchema = Migration{
	Timestamp: 1735400000000,
	Name:      "CreateInitialSchema",
	Up: func(tx *gorm.DB) error {
		for _, t := range []Table{
			initialUsersTable,
			initialPreferencesTable,
			tenantProfilesTable,
			operatorProfilesTable,
			initialPropertiesTable,
			favouritesTable,
			shortlistTable,
		} {
			if err := ensureTable(tx, t); err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		for _, name := range []string{"shortlist", "favourites", "properties", "operator_profiles", "tenant_profiles", "preferences", "users"} {
			if err := dropTableIfExists(tx, name); err != nil {
				return err
			}
		}
		return nil
	},
}
