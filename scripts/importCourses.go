package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"krpic_backend/config"
	"krpic_backend/database"
	"krpic_backend/models"
)

// Imports the course catalog from Courses.csv. Rows are matched by slug:
// existing courses are updated in place, new ones inserted.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("Courses.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := headerIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	inserted := 0
	updated := 0
	skipped := 0

	db := database.Database.Db

	for i, row := range records[1:] {
		slug := field(row, "slug")
		title := field(row, "title")
		if slug == "" || title == "" {
			log.Printf("Row %d skipped: missing slug or title", i+2)
			skipped++
			continue
		}

		price, _ := strconv.Atoi(field(row, "price"))
		duration, _ := strconv.Atoi(field(row, "duration_seconds"))

		course := models.Course{
			Title:           title,
			Slug:            slug,
			Category:        field(row, "category"),
			Description:     field(row, "description"),
			Instructor:      field(row, "instructor"),
			Price:           price,
			DurationSeconds: duration,
			ThumbnailURL:    field(row, "thumbnail_url"),
			CertificateID:   field(row, "certificate_id"),
			Status:          "ACTIVE",
		}

		var existing models.Course
		err := db.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			if err := db.Model(&existing).Updates(map[string]interface{}{
				"title":            course.Title,
				"category":         course.Category,
				"description":      course.Description,
				"instructor":       course.Instructor,
				"price":            course.Price,
				"duration_seconds": course.DurationSeconds,
				"thumbnail_url":    course.ThumbnailURL,
				"certificate_id":   course.CertificateID,
			}).Error; err != nil {
				log.Printf("Row %d update failed (%s): %v", i+2, slug, err)
				skipped++
				continue
			}
			updated++
			continue
		}

		if err := db.Create(&course).Error; err != nil {
			log.Printf("Row %d insert failed (%s): %v", i+2, slug, err)
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("Import finished: %d inserted, %d updated, %d skipped", inserted, updated, skipped)
}
