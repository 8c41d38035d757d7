package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
)

func ConnectionDb() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disable prepared statements completely
	}), &gorm.Config{
		PrepareStmt: false,
		// TranslateError turns the unique-index violation on code values
		// into gorm.ErrDuplicatedKey, which the code store depends on.
		TranslateError: true,
	})
	if err != nil {
		log.Printf("error connect to database %s", err)
	}

	if db != nil {
		if err := db.AutoMigrate(
			&entity.User{},
			&entity.VerificationCode{},
			&entity.AuditLog{},
		); err != nil {
			log.Printf("error migrate database %s", err)
		}
	}

	fmt.Println("success connect to db")
	return db
}
