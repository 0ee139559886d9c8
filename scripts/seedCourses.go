package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"planetpath/config"
	"planetpath/database"
	courseModels "planetpath/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Expected columns: title, description, level, topics, thumbnail_url,
// published, assignments. topics and assignments are "|" separated.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	path := "courses.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	stats, err := importCourses(database.Database.Db, file)
	if err != nil {
		log.Fatalf("Failed to import courses: %v", err)
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", stats.inserted)
	log.Printf("Updated: %d", stats.updated)
	log.Printf("Skipped: %d", stats.skipped)
	log.Printf("Total processed: %d", stats.inserted+stats.updated+stats.skipped)
}

type importStats struct {
	inserted, updated, skipped int
}

// importCourses upserts courses by title. Assignments are only created for
// new courses so learners' progress is never reshuffled.
func importCourses(db *gorm.DB, r io.Reader) (importStats, error) {
	var stats importStats

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return stats, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return stats, fmt.Errorf("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	for i, row := range records[1:] {
		title := getField(row, headerIndex, "title")
		level := strings.ToUpper(getField(row, headerIndex, "level"))
		if level == "" {
			level = courseModels.LevelBeginner
		}
		if title == "" || !courseModels.IsValidLevel(level) {
			log.Printf("Skipping row %d: missing title or bad level %q", i+2, level)
			stats.skipped++
			continue
		}

		topics, _ := json.Marshal(splitList(getField(row, headerIndex, "topics")))
		fields := map[string]interface{}{
			"description":   getField(row, headerIndex, "description"),
			"level":         level,
			"topics":        datatypes.JSON(topics),
			"thumbnail_url": getField(row, headerIndex, "thumbnail_url"),
			"is_published":  parseBool(getField(row, headerIndex, "published")),
		}

		var existing courseModels.Course
		if err := db.Where("title = ? AND is_deleted = ?", title, false).First(&existing).Error; err == nil {
			if err := db.Model(&existing).Updates(fields).Error; err != nil {
				log.Printf("Error updating course %q: %v", title, err)
				continue
			}
			stats.updated++
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			course := courseModels.Course{Title: title}
			if err := tx.Create(&course).Error; err != nil {
				return err
			}
			if err := tx.Model(&course).Updates(fields).Error; err != nil {
				return err
			}
			for order, name := range splitList(getField(row, headerIndex, "assignments")) {
				if err := tx.Create(&courseModels.Assignment{CourseID: course.ID, Title: name, OrderIndex: order}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("Error inserting course %q: %v", title, err)
			continue
		}
		stats.inserted++
	}

	return stats, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func parseBool(s string) bool {
	val, err := strconv.ParseBool(s)
	return err == nil && val
}
