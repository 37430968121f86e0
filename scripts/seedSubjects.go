package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"courseplatform/config"
	"courseplatform/database"
	"courseplatform/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type subjectFile struct {
	Subjects []subjectRow `yaml:"subjects"`
}

type subjectRow struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
}

type importStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	path := "subjects.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open subjects file: %v", err)
	}
	defer file.Close()

	stats, err := importSubjects(database.Database.Db, file)
	if err != nil {
		log.Fatalf("Failed to import subjects: %v", err)
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", stats.Inserted)
	log.Printf("Updated: %d", stats.Updated)
	log.Printf("Skipped: %d", stats.Skipped)
}

// importSubjects upserts every subject in the YAML document by slug. Rows
// without a title or with a malformed slug are skipped.
func importSubjects(db *gorm.DB, r io.Reader) (importStats, error) {
	var stats importStats

	var doc subjectFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return stats, fmt.Errorf("decode subjects: %w", err)
	}

	for _, row := range doc.Subjects {
		title := strings.TrimSpace(row.Title)
		slug := strings.TrimSpace(row.Slug)
		if slug == "" {
			slug = slugify(title)
		}
		if title == "" || !slugPattern.MatchString(slug) {
			log.Printf("Skipping subject %q (slug %q)", row.Title, row.Slug)
			stats.Skipped++
			continue
		}

		var existing models.Subject
		result := db.Unscoped().Where("slug = ?", slug).Limit(1).Find(&existing)
		if result.Error != nil {
			return stats, result.Error
		}

		if result.RowsAffected == 0 {
			if err := db.Create(&models.Subject{Title: title, Slug: slug}).Error; err != nil {
				log.Printf("Error inserting subject %s: %v", slug, err)
				continue
			}
			stats.Inserted++
			continue
		}

		existing.Title = title
		existing.DeletedAt = gorm.DeletedAt{}
		if err := db.Unscoped().Save(&existing).Error; err != nil {
			log.Printf("Error updating subject %s: %v", slug, err)
			continue
		}
		stats.Updated++
	}
	return stats, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}
