package migrations

// Final shape of every application table. Older migrations derive their
// historical shape from these with Table.Without and Table.With.

var (
	idColumn        = Column{Name: "id", Type: "uuid", PrimaryKey: true}
	createdAtColumn = Column{Name: "created_at", Type: "timestamp", NotNull: true, Default: "CURRENT_TIMESTAMP"}
	updatedAtColumn = Column{Name: "updated_at", Type: "timestamp", NotNull: true, Default: "CURRENT_TIMESTAMP"}
)

func nullable(name, typ string) Column {
	return Column{Name: name, Type: typ}
}

func required(name, typ string) Column {
	return Column{Name: name, Type: typ, NotNull: true}
}

var usersTable = Table{Name: "users", Columns: []Column{
	idColumn,
	{Name: "email", Type: "varchar", NotNull: true, Unique: true},
	nullable("full_name", "varchar"),
	nullable("roles", "text"),
	{Name: "status", Type: "varchar", NotNull: true, Default: "'active'"},
	nullable("password", "varchar"),
	nullable("google_id", "varchar"),
	{Name: "provider", Type: "varchar", NotNull: true, Default: "'local'"},
	nullable("avatar_url", "varchar"),
	{Name: "email_verified", Type: "boolean", NotNull: true, Default: "false"},
	nullable("phone", "varchar"),
	nullable("date_of_birth", "date"),
	nullable("nationality", "varchar"),
	createdAtColumn,
	updatedAtColumn,
}}

// rolesNotNull is the shape of users.roles before roles became optional.
var rolesNotNull = Column{Name: "roles", Type: "text", NotNull: true, Default: "'tenant'"}

// Lifestyle fields owned by preferences; they originally lived on users.
var lifestyleColumns = []Column{
	nullable("hobbies", "text"),
	nullable("ideal_living_environment", "varchar"),
	nullable("pets", "varchar"),
	nullable("smoker", "boolean"),
	nullable("additional_info", "text"),
}

var preferencesTable = Table{Name: "preferences", Columns: append([]Column{
	idColumn,
	{Name: "user_id", Type: "uuid", NotNull: true, References: "users"},
	nullable("primary_postcode", "varchar"),
	nullable("secondary_location", "varchar"),
	nullable("commute_location", "varchar"),
	nullable("commute_time_walk", "integer"),
	nullable("commute_time_cycle", "integer"),
	nullable("commute_time_tube", "integer"),
	nullable("move_in_date", "date"),
	nullable("move_out_date", "date"),
	nullable("min_price", "integer"),
	nullable("max_price", "integer"),
	nullable("min_bedrooms", "integer"),
	nullable("max_bedrooms", "integer"),
	nullable("min_bathrooms", "integer"),
	nullable("max_bathrooms", "integer"),
	nullable("furnishing", "varchar"),
	nullable("location", "text"),
	nullable("building_style", "text"),
	nullable("designer_furniture", "boolean"),
	nullable("house_shares", "varchar"),
	nullable("date_property_added", "varchar"),
	nullable("lifestyle_features", "text"),
	nullable("social_features", "text"),
	nullable("work_features", "text"),
	nullable("convenience_features", "text"),
	nullable("pet_friendly_features", "text"),
	nullable("luxury_features", "text"),
	nullable("let_duration", "varchar"),
	nullable("property_type", "text"),
	createdAtColumn,
	updatedAtColumn,
}, lifestyleColumns...)}

var tenantProfilesTable = Table{Name: "tenant_profiles", Columns: []Column{
	idColumn,
	{Name: "userId", Type: "uuid", NotNull: true, References: "users"},
	nullable("full_name", "varchar"),
	nullable("age_range", "varchar"),
	nullable("phone", "varchar"),
	nullable("date_of_birth", "date"),
	nullable("nationality", "varchar"),
	nullable("occupation", "varchar"),
	nullable("industry", "varchar"),
	nullable("work_style", "varchar"),
	nullable("lifestyle", "text"),
	nullable("pets", "varchar"),
	nullable("smoker", "boolean"),
	nullable("hobbies", "text"),
	nullable("ideal_living_environment", "varchar"),
	nullable("additional_info", "text"),
	nullable("shortlisted_properties", "text"),
	createdAtColumn,
	updatedAtColumn,
}}

var operatorProfilesTable = Table{Name: "operator_profiles", Columns: []Column{
	idColumn,
	{Name: "userId", Type: "uuid", NotNull: true, References: "users"},
	nullable("full_name", "varchar"),
	nullable("company_name", "varchar"),
	nullable("phone", "varchar"),
	nullable("date_of_birth", "date"),
	nullable("nationality", "varchar"),
	nullable("business_address", "text"),
	nullable("company_registration", "varchar"),
	nullable("vat_number", "varchar"),
	nullable("license_number", "varchar"),
	nullable("years_experience", "integer"),
	nullable("operating_areas", "text"),
	nullable("property_types", "text"),
	nullable("services", "text"),
	nullable("business_description", "text"),
	nullable("website", "varchar"),
	nullable("linkedin", "varchar"),
	createdAtColumn,
	updatedAtColumn,
}}

var propertiesTable = Table{Name: "properties", Columns: []Column{
	idColumn,
	required("title", "varchar"),
	required("description", "text"),
	required("address", "varchar"),
	required("price", "decimal(10,2)"),
	required("bedrooms", "integer"),
	required("bathrooms", "integer"),
	required("property_type", "varchar"),
	required("furnishing", "varchar"),
	nullable("lifestyle_features", "text"),
	nullable("available_from", "date"),
	nullable("images", "text"),
	{Name: "is_btr", Type: "boolean", NotNull: true, Default: "false"},
	nullable("lat", "decimal(10,7)"),
	nullable("lng", "decimal(10,7)"),
	{Name: "operator_id", Type: "uuid", NotNull: true, References: "users"},
	createdAtColumn,
	updatedAtColumn,
}}

var propertyMediaTable = Table{Name: "property_media", Columns: []Column{
	idColumn,
	{Name: "property_id", Type: "uuid", NotNull: true, References: "properties"},
	{Name: "url", Type: "varchar", NotNull: true, Default: "''"},
	required("s3_key", "varchar"),
	{Name: "type", Type: "varchar", NotNull: true, Default: "'image'"},
	required("mime_type", "varchar"),
	required("original_filename", "varchar"),
	required("file_size", "bigint"),
	{Name: "order_index", Type: "integer", NotNull: true, Default: "0"},
	{Name: "is_featured", Type: "boolean", NotNull: true, Default: "false"},
	createdAtColumn,
	updatedAtColumn,
}}

func savedTable(name string) Table {
	return Table{Name: name, Columns: []Column{
		idColumn,
		{Name: "userId", Type: "uuid", NotNull: true, References: "users"},
		{Name: "propertyId", Type: "uuid", NotNull: true, References: "properties"},
		createdAtColumn,
	}}
}

var (
	favouritesTable = savedTable("favourites")
	shortlistTable  = savedTable("shortlist")
)

var propertyMediaIndexes = []Index{
	{Name: "IDX_property_media_property_id", Table: "property_media", Columns: []string{"property_id"}},
	{Name: "IDX_property_media_order_index", Table: "property_media", Columns: []string{"property_id", "order_index"}},
	{Name: "IDX_property_media_featured", Table: "property_media", Columns: []string{"property_id", "is_featured"}, Where: "is_featured = true"},
}

var completeSchemaIndexes = []Index{
	{Name: "IDX_users_email", Table: "users", Columns: []string{"email"}},
	{Name: "IDX_users_google_id", Table: "users", Columns: []string{"google_id"}},
	{Name: "IDX_users_roles", Table: "users", Columns: []string{"roles"}},
	{Name: "IDX_preferences_user_id", Table: "preferences", Columns: []string{"user_id"}},
	{Name: "IDX_properties_operator_id", Table: "properties", Columns: []string{"operator_id"}},
	{Name: "IDX_properties_price", Table: "properties", Columns: []string{"price"}},
	{Name: "IDX_properties_bedrooms", Table: "properties", Columns: []string{"bedrooms"}},
	{Name: "IDX_properties_property_type", Table: "properties", Columns: []string{"property_type"}},
	{Name: "IDX_property_media_property_id", Table: "property_media", Columns: []string{"property_id"}},
}
