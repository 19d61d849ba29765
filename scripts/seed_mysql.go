package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	mysqlUser := getEnv("MYSQL_USER", "tiburones")
	mysqlPassword := getEnv("MYSQL_PASSWORD", "tiburones123")
	mysqlHost := getEnv("MYSQL_HOST", "localhost:3306")
	mysqlDatabase := getEnv("MYSQL_DATABASE", "tiburones")

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		mysqlUser, mysqlPassword, mysqlHost, mysqlDatabase)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping MySQL: %v\nDSN: %s:%s@tcp(%s)/%s",
			err, mysqlUser, "***", mysqlHost, mysqlDatabase)
	}

	fmt.Println("Connected to MySQL successfully")

	now := time.Now()

	// Seed clients
	clients := []struct {
		id         string
		fullName   string
		nationalID string
		phone      string
	}{
		{"client-0001", "Maria Lopez", "V-12345678", "+58-412-5550001"},
		{"client-0002", "Jose Ramirez", "V-23456789", "+58-414-5550002"},
		{"client-0003", "Carmen Diaz", "V-34567890", "+58-424-5550003"},
	}

	clientQuery := `
		INSERT INTO clients (id, full_name, national_id, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    full_name = VALUES(full_name),
		    phone = VALUES(phone)
	`

	for _, c := range clients {
		if _, err := db.Exec(clientQuery, c.id, c.fullName, c.nationalID, c.phone, now, now); err != nil {
			log.Fatalf("Failed to seed client %s: %v", c.id, err)
		}
		fmt.Printf("Seeded client: %s (%s)\n", c.id, c.fullName)
	}

	// Seed products
	products := []struct {
		id        string
		name      string
		unitPrice int64
		stock     int
		category  string
	}{
		{"product-0001", "Nevera 300L", 120000, 8, "linea blanca"},
		{"product-0002", "Lavadora 12kg", 95000, 5, "linea blanca"},
		{"product-0003", "Televisor 43\"", 60000, 12, "electronica"},
		{"product-0004", "Cocina 4 hornillas", 80000, 6, "linea blanca"},
	}

	productQuery := `
		INSERT INTO products (id, name, unit_price, stock, low_stock_threshold,
		                      category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    unit_price = VALUES(unit_price),
		    stock = VALUES(stock)
	`

	for _, p := range products {
		if _, err := db.Exec(productQuery, p.id, p.name, p.unitPrice, p.stock, 3, p.category, now, now); err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.id, err)
		}
		fmt.Printf("Seeded product: %s (%s at %d centavos)\n", p.id, p.name, p.unitPrice)
	}

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("You can now create sales against client-0001 to client-0003")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
