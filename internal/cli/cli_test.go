package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/model"
	"learngenix_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (string, string) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "learngenix.db")
	yaml := fmt.Sprintf(`database:
  driver: sqlite
  dbname: %s
  max_open_conns: 1
storage:
  type: local
  local_path: %s
log:
  file: %s
`, dbPath, filepath.Join(dir, "uploads"), filepath.Join(dir, "app.log"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	return dir, dbPath
}

func run(t *testing.T, args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "migrate", "seed"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestMigrateAndSeed(t *testing.T) {
	dir, dbPath := writeConfig(t)

	require.NoError(t, run(t, "--config", dir, "migrate"))
	require.NoError(t, run(t, "--config", dir, "seed"))
	// 重复执行不报错也不重复插入
	require.NoError(t, run(t, "--config", dir, "seed"))

	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dbPath})
	require.NoError(t, err)
	defer database.Close(db)

	var users []model.User
	require.NoError(t, db.Order("email").Find(&users).Error)
	require.Len(t, users, len(demoUsers))
	assert.Equal(t, "admin@test.com", users[0].Email)
	assert.Equal(t, model.Admin, users[0].Role)

	var achievement model.Achievement
	require.NoError(t, db.Where("name = ?", model.FirstCorrectAchievement).First(&achievement).Error)
}

func TestSeedWithoutUsers(t *testing.T) {
	dir, dbPath := writeConfig(t)
	require.NoError(t, run(t, "--config", dir, "seed", "--users=false"))

	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dbPath})
	require.NoError(t, err)
	defer database.Close(db)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
