package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anoixa/image-share/database/models"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrateCmd 数据库迁移命令
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tools",
	Long:  `Migrate data from one database to another (e.g., SQLite to PostgreSQL).`,
}

// migrateRunCmd 执行迁移命令
var migrateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run database migration",
	Long: `Run database migration from source to target database.

Examples:
  # Migrate from SQLite to PostgreSQL
  image-share migrate run --from-sqlite ./data/app.db --to-postgres "host=localhost user=postgres password=secret dbname=imageshare port=5432"`,
	Run: func(cmd *cobra.Command, args []string) {
		fromType, _ := cmd.Flags().GetString("from-type")
		toType, _ := cmd.Flags().GetString("to-type")
		fromDSN, _ := cmd.Flags().GetString("from-dsn")
		toDSN, _ := cmd.Flags().GetString("to-dsn")
		fromSQLite, _ := cmd.Flags().GetString("from-sqlite")
		toPostgres, _ := cmd.Flags().GetString("to-postgres")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		if err := runMigration(fromType, toType, fromDSN, toDSN, fromSQLite, toPostgres, skipConfirm, batchSize); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateRunCmd)

	migrateRunCmd.Flags().String("from-type", "", "Source database type (sqlite, postgres)")
	migrateRunCmd.Flags().String("to-type", "", "Target database type (sqlite, postgres)")
	migrateRunCmd.Flags().String("from-dsn", "", "Source database DSN/connection string")
	migrateRunCmd.Flags().String("to-dsn", "", "Target database DSN/connection string")
	migrateRunCmd.Flags().String("from-sqlite", "", "Source SQLite file path (shortcut)")
	migrateRunCmd.Flags().String("to-postgres", "", "Target PostgreSQL connection string (shortcut)")
	migrateRunCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	migrateRunCmd.Flags().Int("batch-size", 100, "Batch size for image migration")
}

// migrateStats 迁移统计
type migrateStats struct {
	users  int
	images int
	likes  int
	errors []string
}

// runMigration 执行数据库迁移
func runMigration(fromType, toType, fromDSN, toDSN, fromSQLite, toPostgres string, skipConfirm bool, batchSize int) error {
	// 处理快捷方式参数
	if fromSQLite != "" {
		fromType = "sqlite"
		fromDSN = fromSQLite
	}
	if toPostgres != "" {
		toType = "postgres"
		toDSN = toPostgres
	}

	if fromType == "" || toType == "" {
		return fmt.Errorf("both --from-type and --to-type are required")
	}
	if fromDSN == "" || toDSN == "" {
		return fmt.Errorf("both --from-dsn and --to-dsn (or shortcuts) are required")
	}
	if fromType == toType && fromDSN == toDSN {
		return fmt.Errorf("source and target databases are the same")
	}

	log.Printf("Migrating from %s to %s", fromType, toType)
	log.Printf("Source: %s", maskDSN(fromDSN))
	log.Printf("Target: %s", maskDSN(toDSN))

	sourceDB, err := openDatabase(fromType, fromDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	sqlDB, _ := sourceDB.DB()
	defer sqlDB.Close()

	targetDB, err := openDatabase(toType, toDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	sqlDB2, _ := targetDB.DB()
	defer sqlDB2.Close()

	if !skipConfirm {
		fmt.Println("\nWarning: This will migrate all data from source to target database.")
		fmt.Print("Do you want to continue? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Migration cancelled.")
			return nil
		}
	}

	stats := &migrateStats{}

	log.Println("Migrating database schema...")
	if err := targetDB.AutoMigrate(&models.User{}, &models.Image{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	ctx := context.Background()

	log.Println("Migrating users...")
	if err := migrateUsers(ctx, sourceDB, targetDB, stats); err != nil {
		return err
	}

	log.Println("Migrating images...")
	if err := migrateImages(ctx, sourceDB, targetDB, stats, batchSize); err != nil {
		return err
	}

	log.Println("Migrating likes...")
	if err := migrateLikes(ctx, sourceDB, targetDB, stats); err != nil {
		return err
	}

	printMigrateStats(stats)

	if len(stats.errors) > 0 {
		return fmt.Errorf("migration completed with %d errors", len(stats.errors))
	}

	log.Println("Migration completed successfully!")
	return nil
}

// openDatabase 打开数据库连接
func openDatabase(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// migrateUsers 迁移用户数据，已存在的记录跳过
func migrateUsers(ctx context.Context, sourceDB, targetDB *gorm.DB, stats *migrateStats) error {
	var users []models.User
	if err := sourceDB.WithContext(ctx).Find(&users).Error; err != nil {
		return err
	}

	for _, user := range users {
		var count int64
		if err := targetDB.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := targetDB.WithContext(ctx).Create(&user).Error; err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("failed to migrate user %d: %v", user.ID, err))
			continue
		}
		stats.users++
	}

	log.Printf("Migrated %d users", stats.users)
	return nil
}

// migrateImages 分批迁移图片数据，图片携带二进制内容
func migrateImages(ctx context.Context, sourceDB, targetDB *gorm.DB, stats *migrateStats, batchSize int) error {
	var offset int
	for {
		var imageBatch []models.Image
		if err := sourceDB.WithContext(ctx).Order("id").Limit(batchSize).Offset(offset).Find(&imageBatch).Error; err != nil {
			return err
		}
		if len(imageBatch) == 0 {
			break
		}

		for _, image := range imageBatch {
			var count int64
			if err := targetDB.WithContext(ctx).Model(&models.Image{}).
				Where("id = ?", image.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			// 清除关联，点赞关系单独迁移
			image.LikedBy = nil

			if err := targetDB.WithContext(ctx).Create(&image).Error; err != nil {
				stats.errors = append(stats.errors, fmt.Sprintf("failed to migrate image %d: %v", image.ID, err))
				continue
			}
			stats.images++
		}

		offset += batchSize
		log.Printf("Migrated %d images...", stats.images)
	}

	log.Printf("Migrated %d images", stats.images)
	return nil
}

// migrateLikes 迁移点赞关联关系
func migrateLikes(ctx context.Context, sourceDB, targetDB *gorm.DB, stats *migrateStats) error {
	type likeRow struct {
		UserID  uint
		ImageID uint
	}

	var relations []likeRow
	if err := sourceDB.WithContext(ctx).Raw("SELECT user_id, image_id FROM likes").Scan(&relations).Error; err != nil {
		// 表可能不存在
		return nil
	}

	for _, rel := range relations {
		var count int64
		targetDB.WithContext(ctx).Raw(
			"SELECT COUNT(*) FROM likes WHERE user_id = ? AND image_id = ?",
			rel.UserID, rel.ImageID,
		).Scan(&count)
		if count > 0 {
			continue
		}

		if err := targetDB.WithContext(ctx).Exec(
			"INSERT INTO likes (user_id, image_id) VALUES (?, ?)",
			rel.UserID, rel.ImageID,
		).Error; err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf(
				"failed to migrate like (user=%d, image=%d): %v", rel.UserID, rel.ImageID, err))
			continue
		}
		stats.likes++
	}

	log.Printf("Migrated %d likes", stats.likes)
	return nil
}

// maskDSN 隐藏敏感信息
func maskDSN(dsn string) string {
	if len(dsn) > 50 {
		return dsn[:50] + "..."
	}
	return dsn
}

// printMigrateStats 打印迁移统计
func printMigrateStats(stats *migrateStats) {
	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("       Migration Statistics")
	fmt.Println("========================================")
	fmt.Printf("Users migrated:    %d\n", stats.users)
	fmt.Printf("Images migrated:   %d\n", stats.images)
	fmt.Printf("Likes migrated:    %d\n", stats.likes)
	fmt.Println("========================================")

	if len(stats.errors) > 0 {
		fmt.Println("\nErrors encountered:")
		for _, err := range stats.errors {
			fmt.Printf("  - %s\n", err)
		}
	}
}
