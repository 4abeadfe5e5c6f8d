// Seeds the development database with fake events, users, performers, and
// tips.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/rob-j-au/djtip/config"
	"github.com/rob-j-au/djtip/internal/models"
)

var genres = []string{"House", "Techno", "Drum & Bass", "Disco", "Hip Hop", "Funk"}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	gofakeit.Seed(0)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	adminUser := models.User{
		Name:         "Admin",
		Email:        "admin@djtip.local",
		Admin:        true,
		PasswordHash: string(hashed),
	}
	if err := db.Where("email = ?", adminUser.Email).FirstOrCreate(&adminUser).Error; err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	for i := 0; i < 5; i++ {
		event := models.Event{
			Title:       gofakeit.Sentence(3),
			Description: gofakeit.Paragraph(1, 3, 8, " "),
			Date:        time.Now().AddDate(0, 0, gofakeit.Number(-30, 60)),
			Location:    gofakeit.City(),
		}
		if err := db.Create(&event).Error; err != nil {
			log.Fatalf("failed to seed event: %v", err)
		}

		for j := 0; j < 3; j++ {
			user := models.User{
				Name:  gofakeit.Name(),
				Email: gofakeit.Email(),
				Phone: gofakeit.Phone(),
			}
			if err := db.Create(&user).Error; err != nil {
				continue
			}
			_ = db.Model(&event).Association("Users").Append(&user)

			tip := models.Tip{
				Amount:   gofakeit.Price(1, 100),
				Currency: models.DefaultCurrency,
				Message:  gofakeit.HipsterSentence(5),
				EventID:  event.ID,
				UserID:   user.ID,
			}
			if err := db.Create(&tip).Error; err != nil {
				log.Printf("failed to seed tip: %v", err)
			}
		}

		performer := models.Performer{
			Name:    "DJ " + gofakeit.FirstName(),
			Genre:   genres[gofakeit.Number(0, len(genres)-1)],
			Bio:     gofakeit.HipsterSentence(10),
			Contact: gofakeit.Email(),
			EventID: &event.ID,
		}
		if err := db.Create(&performer).Error; err != nil {
			log.Printf("failed to seed performer: %v", err)
		}

		fmt.Printf("seeded event %q\n", event.Title)
	}
}
