package db

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lingoboard/internal/logger"
	"lingoboard/internal/models"
)

// Init connects to postgres, migrates the community tables and seeds the
// reference tables when they are empty.
func Init(dsn string, develop bool) (*gorm.DB, error) {
	if dsn == "" {
		// local dev fallback
		dsn = "host=localhost user=postgres password=postgres dbname=lingoboard port=5432 sslmode=disable TimeZone=UTC"
	}

	level := gormlogger.Warn
	if develop {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	logger.Infof("Database connection established")

	err = db.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.CommunityRule{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.PostView{},
		&models.Violation{},
		&models.ModerationLog{},
		&models.Appeal{},
		&models.Notification{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}
	logger.Infof("Database migration completed")

	if err := seedBadges(db); err != nil {
		return nil, err
	}
	if err := seedRules(db); err != nil {
		return nil, err
	}
	return db, nil
}

func seedBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Badge{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count badges")
	}
	if count > 0 {
		logger.Debugf("Badges already seeded, skipping")
		return nil
	}

	badges := models.DefaultBadges()
	if err := db.Create(&badges).Error; err != nil {
		return errors.Wrap(err, "seed badges")
	}
	logger.Infof("Seeded %d badges", len(badges))
	return nil
}

func seedRules(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.CommunityRule{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count rules")
	}
	if count > 0 {
		logger.Debugf("Community rules already seeded, skipping")
		return nil
	}

	rules := DefaultRules()
	for _, rule := range rules {
		if err := db.Create(&rule).Error; err != nil {
			logger.Warnf("Failed to create rule %s: %v", rule.Title, err)
		}
	}
	logger.Infof("Initial community rules created")
	return nil
}

// DefaultRules is the starting rule set of a new community.
func DefaultRules() []models.CommunityRule {
	return []models.CommunityRule{
		{ID: "rule-spam", Title: "No spam or advertising", Description: "Promotional links and paid services are removed.", Severity: 3},
		{ID: "rule-respect", Title: "Be respectful", Description: "Correct mistakes kindly; no insults or harassment.", Severity: 2},
		{ID: "rule-topic", Title: "Stay on topic", Description: "Keep threads about language learning.", Severity: 1},
		{ID: "rule-answers", Title: "No exam answer sharing", Description: "Do not post answers to live certification exams.", Severity: 2},
	}
}
