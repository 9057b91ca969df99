package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rentals/internal/database"
	"rentals/internal/logger"
	"rentals/internal/migrations"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func snapshot(t *testing.T, db *gorm.DB) *migrations.Snapshot {
	t.Helper()
	snap, err := migrations.TakeSnapshot(db)
	require.NoError(t, err)
	return snap
}

func newRunner(db *gorm.DB, ms ...migrations.Migration) *migrations.Runner {
	return migrations.NewRunner(db, logger.Discard(), ms...)
}

// runAgain applies m.Up outside the runner, the way a half-recorded deploy would.
func runAgain(t *testing.T, db *gorm.DB, m migrations.Migration) {
	t.Helper()
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	defer db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, db.Transaction(m.Up))
}

func TestRunner_UpCreatesSchema(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	runner := newRunner(db, migrations.All()...)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(migrations.All()), applied)

	snap := snapshot(t, db)
	for _, table := range []string{"users", "preferences", "tenant_profiles", "operator_profiles",
		"properties", "property_media", "favourites", "shortlist", "migrations"} {
		assert.Contains(t, snap.Tables, table)
	}
	assert.Subset(t, snap.Indexes["users"], []string{"IDX_users_email", "IDX_users_google_id", "IDX_users_roles"})
	assert.Subset(t, snap.Indexes["property_media"], []string{
		"IDX_property_media_featured", "IDX_property_media_order_index", "IDX_property_media_property_id",
	})

	roles, ok := snap.Column("users", "roles")
	require.True(t, ok)
	assert.False(t, roles.NotNull)
	assert.Nil(t, roles.Default)

	for _, col := range []string{"min_bedrooms", "max_bedrooms", "hobbies", "smoker"} {
		_, ok := snap.Column("preferences", col)
		assert.True(t, ok, "preferences.%s", col)
	}
	_, ok = snap.Column("preferences", "bedrooms")
	assert.False(t, ok)
	_, ok = snap.Column("properties", "lat")
	assert.True(t, ok)
	_, ok = snap.Column("property_media", "url")
	assert.True(t, ok)

	again, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
	assert.Equal(t, snap, snapshot(t, db))
}

func TestRunner_Status(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	all := migrations.All()

	_, err := newRunner(db, all[:3]...).Up(ctx)
	require.NoError(t, err)

	status, err := newRunner(db, all...).Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, len(all))
	for i, s := range status {
		assert.Equal(t, i < 3, s.Applied, s.Migration.ID())
	}
	assert.Equal(t, "CreateInitialSchema1735400000000", status[0].Migration.ID())
	assert.Equal(t, "AddCoordinatesToProperties1755000000000", status[len(all)-2].Migration.ID())
	assert.Equal(t, "CreateCompleteSchema1755000000000", status[len(all)-1].Migration.ID())
}

func TestMigrations_UpTwiceEqualsOnce(t *testing.T) {
	all := migrations.All()
	for i := range all {
		m := all[i]
		t.Run(m.Name, func(t *testing.T) {
			db := openDB(t)
			_, err := newRunner(db, all[:i+1]...).Up(context.Background())
			require.NoError(t, err)
			once := snapshot(t, db)

			runAgain(t, db, m)
			assert.Equal(t, once, snapshot(t, db))
		})
	}
}

func TestMigrations_DownRestoresShape(t *testing.T) {
	all := migrations.All()
	for i := range all {
		m := all[i]
		t.Run(m.Name, func(t *testing.T) {
			db := openDB(t)
			ctx := context.Background()
			_, err := newRunner(db, all[:i]...).Status(ctx)
			require.NoError(t, err)
			_, err = newRunner(db, all[:i]...).Up(ctx)
			require.NoError(t, err)
			before := snapshot(t, db)

			runner := newRunner(db, all[:i+1]...)
			applied, err := runner.Up(ctx)
			require.NoError(t, err)
			require.Equal(t, 1, applied)

			reverted, err := runner.Down(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, 1, reverted)
			assert.Equal(t, before, snapshot(t, db))
		})
	}
}

func TestRunner_FullDownLeavesOnlyLedger(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	runner := newRunner(db, migrations.All()...)
	_, err := runner.Up(ctx)
	require.NoError(t, err)

	reverted, err := runner.Down(ctx, len(migrations.All()))
	require.NoError(t, err)
	assert.Equal(t, len(migrations.All()), reverted)
	assert.Equal(t, []string{"migrations"}, snapshot(t, db).TableNames())

	var count int64
	require.NoError(t, db.Table("migrations").Count(&count).Error)
	assert.Zero(t, count)
}

func TestMovePersonalFields_RoundTrip(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	all := migrations.All()
	_, err := newRunner(db, all[:3]...).Up(ctx)
	require.NoError(t, err)

	inserts := []string{
		`INSERT INTO users (id, email, roles, hobbies, pets, smoker) VALUES ('u1', 'a@example.com', 'tenant', 'reading,cooking', 'cat', true)`,
		`INSERT INTO users (id, email, roles, ideal_living_environment) VALUES ('u2', 'b@example.com', 'tenant', 'quiet')`,
		`INSERT INTO users (id, email, roles, hobbies) VALUES ('u3', 'c@example.com', 'operator', 'golf')`,
		`INSERT INTO users (id, email, roles) VALUES ('u4', 'd@example.com', 'tenant')`,
		`INSERT INTO preferences (id, user_id, min_price) VALUES ('p2', 'u2', 1000)`,
	}
	for _, sql := range inserts {
		require.NoError(t, db.Exec(sql).Error)
	}

	runner := newRunner(db, all[:4]...)
	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	type prefRow struct {
		UserID                 string
		Hobbies                *string
		IdealLivingEnvironment *string
		Pets                   *string
		Smoker                 *bool
		MinPrice               *int
	}
	var prefs []prefRow
	require.NoError(t, db.Table("preferences").Order("user_id").Find(&prefs).Error)
	require.Len(t, prefs, 2)

	assert.Equal(t, "u1", prefs[0].UserID)
	require.NotNil(t, prefs[0].Hobbies)
	assert.Equal(t, "reading,cooking", *prefs[0].Hobbies)
	require.NotNil(t, prefs[0].Smoker)
	assert.True(t, *prefs[0].Smoker)

	assert.Equal(t, "u2", prefs[1].UserID)
	require.NotNil(t, prefs[1].IdealLivingEnvironment)
	assert.Equal(t, "quiet", *prefs[1].IdealLivingEnvironment)
	require.NotNil(t, prefs[1].MinPrice)
	assert.Equal(t, 1000, *prefs[1].MinPrice)

	// Edit after the move; the rollback must carry it back to users.
	require.NoError(t, db.Exec(`UPDATE preferences SET pets = 'dog' WHERE user_id = 'u1'`).Error)

	_, err = runner.Down(ctx, 1)
	require.NoError(t, err)

	type userRow struct {
		ID                     string
		Hobbies                *string
		IdealLivingEnvironment *string
		Pets                   *string
	}
	var users []userRow
	require.NoError(t, db.Table("users").Order("id").Find(&users).Error)
	require.Len(t, users, 4)
	assert.Equal(t, "reading,cooking", *users[0].Hobbies)
	assert.Equal(t, "dog", *users[0].Pets)
	assert.Equal(t, "quiet", *users[1].IdealLivingEnvironment)
	assert.Equal(t, "golf", *users[2].Hobbies)
	assert.Nil(t, users[3].Hobbies)

	snap := snapshot(t, db)
	_, ok := snap.Column("preferences", "hobbies")
	assert.False(t, ok)
}

func TestMakeRolesNullable_DownBackfillsTenant(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	runner := newRunner(db, migrations.All()...)
	_, err := runner.Up(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`INSERT INTO users (id, email, roles) VALUES ('u1', 'a@example.com', NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO properties (id, title, description, address, price, bedrooms, bathrooms, property_type, furnishing, operator_id)
		VALUES ('p1', 'Flat', 'Nice', '1 Road', 1500, 2, 1, 'apartment', 'furnished', 'u1')`).Error)

	// Reverts CreateCompleteSchema, AddCoordinatesToProperties, MakeRoleNullable.
	_, err = runner.Down(ctx, 3)
	require.NoError(t, err)

	var roles *string
	require.NoError(t, db.Raw(`SELECT roles FROM users WHERE id = 'u1'`).Scan(&roles).Error)
	require.NotNil(t, roles)
	assert.Equal(t, "tenant", *roles)

	col, ok := snapshot(t, db).Column("users", "roles")
	require.True(t, ok)
	assert.True(t, col.NotNull)
	require.NotNil(t, col.Default)
	assert.Contains(t, *col.Default, "tenant")

	// The table rebuild must not cascade into dependents.
	var count int64
	require.NoError(t, db.Table("properties").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMovePersonalFields_RerunKeepsPreferenceEdits(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	all := migrations.All()
	_, err := newRunner(db, all[:3]...).Up(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (id, email, roles, hobbies, pets) VALUES ('u1', 'a@example.com', 'tenant', 'reading', 'cat')`).Error)

	_, err = newRunner(db, all[:4]...).Up(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`UPDATE preferences SET hobbies = 'climbing', pets = NULL WHERE user_id = 'u1'`).Error)

	runAgain(t, db, all[3])

	var row struct {
		Hobbies *string
		Pets    *string
	}
	require.NoError(t, db.Table("preferences").Where("user_id = ?", "u1").Take(&row).Error)
	require.NotNil(t, row.Hobbies)
	assert.Equal(t, "climbing", *row.Hobbies)
	assert.Nil(t, row.Pets)

	var count int64
	require.NoError(t, db.Table("preferences").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
