package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"hotel-backoffice/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// Dialector picks the GORM driver for cfg. MySQL is the default.
func Dialector(cfg DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "postgresql":
		dsn := cfg.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				cfg.Host, cfg.User, cfg.Pass, cfg.Name, cfg.Port)
		}
		return postgres.Open(dsn), nil
	case "", "mysql":
		if cfg.URL != "" {
			if strings.HasPrefix(cfg.URL, "mysql://") {
				dsn, err := mysqlDSNFromURL(cfg.URL)
				if err != nil {
					return nil, err
				}
				return mysql.Open(dsn), nil
			}
			return mysql.Open(cfg.URL), nil
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

// ConnectDatabase opens the database, migrates the schema and seeds an
// empty install.
func ConnectDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Setting{},
		&models.RoomType{},
		&models.IndividualRoom{},
		&models.Booking{},
		&models.BookingModification{},
		&models.MaintenanceSchedule{},
		&models.MaintenanceLogEntry{},
	); err != nil {
		return nil, err
	}

	if err := SeedDatabase(db, cfg.SeedAdminPassword, log); err != nil {
		return nil, err
	}
	return db, nil
}

var defaultSettings = map[string]string{
	models.SettingSiteName:               "Hotel",
	models.SettingCurrencySymbol:         "$",
	models.SettingVATEnabled:             "0",
	models.SettingVATRate:                "0",
	models.SettingDefaultChildMultiplier: "50",
	models.SettingBookingSystemEnabled:   "1",
	models.SettingWhatsAppEnabled:        "0",
	models.SettingWhatsAppNumber:         "",
	models.SettingEmailNotifications:     "1",
}

// SeedDatabase fills missing settings and, on an empty install, creates
// the default admin and a few room types with rooms.
func SeedDatabase(db *gorm.DB, adminPassword string, log *zap.Logger) error {
	var adminCount int64
	if err := db.Model(&models.Admin{}).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash default admin password: %w", err)
		}
		admin := models.Admin{
			FullName: "Admin User",
			Username: "admin@hotel.local",
			Email:    "admin@hotel.local",
			Password: string(hash),
			Role:     "admin",
			IsActive: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("create default admin: %w", err)
		}
		log.Info("default admin seeded", zap.String("username", admin.Username))
	}

	for key, value := range defaultSettings {
		var n int64
		if err := db.Model(&models.Setting{}).Where("setting_key = ?", key).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
				return fmt.Errorf("seed setting %s: %w", key, err)
			}
		}
	}

	var rtCount int64
	if err := db.Model(&models.RoomType{}).Count(&rtCount).Error; err != nil {
		return err
	}
	if rtCount > 0 {
		return nil
	}

	seed := []struct {
		rt     models.RoomType
		prefix string
	}{
		{models.RoomType{Name: "Standard", Description: "Standard Room", MaxGuests: 2,
			PricePerNight: decimal.NewFromInt(100), SingleEnabled: true, DoubleEnabled: true,
			TripleEnabled: false, ChildrenAllowed: true, TotalRooms: 3, RoomsAvailable: 3}, "1"},
		{models.RoomType{Name: "Deluxe", Description: "Deluxe Room", MaxGuests: 3,
			PricePerNight: decimal.NewFromInt(150), PriceTriple: decimal.NewNullDecimal(decimal.NewFromInt(190)),
			SingleEnabled: true, DoubleEnabled: true, TripleEnabled: true, ChildrenAllowed: true,
			TotalRooms: 3, RoomsAvailable: 3}, "2"},
		{models.RoomType{Name: "Family Suite", Description: "Family Suite", MaxGuests: 5,
			PricePerNight: decimal.NewFromInt(220), SingleEnabled: false, DoubleEnabled: true,
			TripleEnabled: true, ChildrenAllowed: true, TotalRooms: 2, RoomsAvailable: 2}, "3"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range seed {
			rt := seed[i].rt
			if err := tx.Create(&rt).Error; err != nil {
				return fmt.Errorf("seed room type %s: %w", rt.Name, err)
			}
			for n := 1; n <= rt.TotalRooms; n++ {
				room := models.IndividualRoom{
					RoomTypeID: rt.ID,
					RoomNumber: fmt.Sprintf("%s%02d", seed[i].prefix, n),
					Floor:      seed[i].prefix,
					Status:     models.RoomAvailable,
				}
				if err := tx.Create(&room).Error; err != nil {
					return fmt.Errorf("seed room %s: %w", room.RoomNumber, err)
				}
			}
		}
		log.Info("room types seeded", zap.Int("count", len(seed)))
		return nil
	})
}
