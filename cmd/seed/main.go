package main

import (
	"log"
	"os"

	"real-estate-be/internal/model"
	"real-estate-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo agents...")

	agents := demoAgents()
	for i := range agents {
		var existing model.User
		if err := db.Where("email = ?", agents[i].Email).First(&existing).Error; err == nil {
			color.Yellow("Agent '%s' already exists, skipping...", agents[i].Email)
			agents[i].Id = existing.Id
			continue
		}

		if err := db.Create(&agents[i]).Error; err != nil {
			color.Red("Error creating agent '%s': %v", agents[i].Email, err)
		} else {
			color.Green("Created agent: %s (%s)", agents[i].FullName, agents[i].Email)
		}
	}

	color.Cyan("Seeding demo listings...")

	for _, p := range demoListings(agents) {
		var existing model.Post
		if err := db.Where("title = ?", p.Title).First(&existing).Error; err == nil {
			color.Yellow("Listing '%s' already exists, skipping...", p.Title)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating listing '%s': %v", p.Title, err)
		} else {
			color.Green("Created listing: %s (%s, %s)", p.Title, p.City, p.Action)
		}
	}

	color.Cyan("Seeding completed!")
}

func demoAgents() []model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	pw := string(hash)
	phone1 := "+2348012345678"
	phone2 := "+2348098765432"

	return []model.User{
		{Email: "ade.agent@example.com", PasswordHash: &pw, FullName: "Ade Properties", Phone: &phone1, Role: "user", Status: "active"},
		{Email: "bola.agent@example.com", PasswordHash: &pw, FullName: "Bola Homes", Phone: &phone2, Role: "user", Status: "active"},
	}
}

func demoListings(agents []model.User) []model.Post {
	area1 := 85.0
	area2 := 240.0
	area3 := 62.0
	images := datatypes.JSON([]byte(`["https://cdn.example.com/demo/placeholder.jpg"]`))

	return []model.Post{
		{
			UserId: agents[0].Id, Title: "2 Bedroom Apartment in Lekki Phase 1",
			Description:  "Serviced apartment with 24h power, fitted kitchen and a pool.",
			PropertyType: "apartment", Action: "rent", Price: 3_500_000, Currency: "NGN",
			City: "Lagos", Country: "Nigeria", Address: "Lekki Phase 1",
			Bedrooms: 2, Bathrooms: 2, Area: &area1, Images: images,
		},
		{
			UserId: agents[0].Id, Title: "4 Bedroom Detached Duplex in Maitama",
			Description:  "Spacious duplex with a boys' quarters and ample parking.",
			PropertyType: "house", Action: "sale", Price: 450_000_000, Currency: "NGN",
			City: "Abuja", Country: "Nigeria", Address: "Maitama District",
			Bedrooms: 4, Bathrooms: 5, Area: &area2, Images: images,
		},
		{
			UserId: agents[1].Id, Title: "Studio Apartment in Yaba",
			Description:  "Compact studio close to the tech cluster, ideal for singles.",
			PropertyType: "apartment", Action: "rent", Price: 1_200_000, Currency: "NGN",
			City: "Lagos", Country: "Nigeria", Address: "Yaba",
			Bedrooms: 1, Bathrooms: 1, Area: &area3, Images: images,
		},
		{
			UserId: agents[1].Id, Title: "3 Bedroom Terrace in Ikeja GRA",
			Description:  "Newly built terrace in a gated estate with a gym.",
			PropertyType: "house", Action: "sale", Price: 180_000_000, Currency: "NGN",
			City: "Lagos", Country: "Nigeria", Address: "Ikeja GRA",
			Bedrooms: 3, Bathrooms: 4, Images: images,
		},
		{
			UserId: agents[0].Id, Title: "Commercial Land on Airport Road",
			Description:  "Fenced plot with C of O, suitable for retail development.",
			PropertyType: "land", Action: "sale", Price: 95_000_000, Currency: "NGN",
			City: "Abuja", Country: "Nigeria", Address: "Airport Road",
			Images: images,
		},
	}
}
