package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"outreach-mailer/internal/contacts"
	"outreach-mailer/internal/db"
	"outreach-mailer/internal/logger"
	"outreach-mailer/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Reading configuration from environment.")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	dbCfg, err := db.Load()
	if err != nil {
		log.Fatalf("Failed to load database configuration: %v", err)
	}

	ctx := context.Background()
	dbClient, err := db.NewClient(ctx, dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()

	switch os.Args[1] {
	case "init":
		handleInit(ctx, dbClient)
	case "add":
		handleAdd(ctx, dbClient)
	case "import":
		handleImport(ctx, dbClient)
	case "list":
		handleList(ctx, dbClient)
	case "delete":
		handleDelete(ctx, dbClient)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// handleInit creates the contacts table.
func handleInit(ctx context.Context, client *db.Client) {
	if err := client.Migrate(ctx, logger.New(os.Stderr, "development", "info")); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
}

func handleAdd(ctx context.Context, client *db.Client) {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	name := addCmd.String("name", "", "Contact name")
	email := addCmd.String("email", "", "Contact email address (leave empty for LinkedIn-only contacts)")
	company := addCmd.String("company", "", "Company name")
	addCmd.Parse(os.Args[2:])

	if *name == "" || *company == "" {
		log.Println("Flags -name and -company are required.")
		addCmd.Usage()
		return
	}

	contact := models.Contact{
		Name:    strings.TrimSpace(*name),
		Email:   strings.TrimSpace(*email),
		Company: strings.TrimSpace(*company),
	}

	id, err := client.Create(ctx, db.ContactsTable, contact)
	if err != nil {
		log.Fatalf("Failed to add contact: %v", err)
	}
	fmt.Printf("Contact added with ID %d.\n", id)
}

// handleImport copies every row of a contacts CSV into the table.
func handleImport(ctx context.Context, client *db.Client) {
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	file := importCmd.String("file", "data/contacts.csv", "CSV file with name, email and company columns")
	importCmd.Parse(os.Args[2:])

	list, err := contacts.NewCSVSource(*file).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read contacts: %v", err)
	}

	for i, contact := range list {
		if _, err := client.Create(ctx, db.ContactsTable, contact); err != nil {
			log.Fatalf("Failed to import row %d (%s): %v", i+2, contact.Name, err)
		}
	}
	fmt.Printf("Imported %d contacts from %s.\n", len(list), *file)
}

func handleList(ctx context.Context, client *db.Client) {
	var records []models.ContactRecord
	if err := client.Read(ctx, db.ContactsTable, &records, ""); err != nil {
		log.Fatalf("Failed to read contacts: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No contacts found in the database.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY")
	fmt.Fprintln(w, "--\t----\t-----\t-------")
	for _, r := range records {
		email := r.Email
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, email, r.Company)
	}
	w.Flush()
}

// handleDelete removes every contact with the given email address.
func handleDelete(ctx context.Context, client *db.Client) {
	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	email := deleteCmd.String("email", "", "Email address of the contact to delete")
	deleteCmd.Parse(os.Args[2:])

	if *email == "" {
		log.Println("Flag -email is required.")
		deleteCmd.Usage()
		return
	}

	rowsAffected, err := client.Delete(ctx, db.ContactsTable, "email = $1", *email)
	if err != nil {
		log.Fatalf("Failed to delete contact: %v", err)
	}

	if rowsAffected == 0 {
		fmt.Printf("No contact with email '%s' found.\n", *email)
		return
	}
	fmt.Printf("Deleted %d contact(s) with email '%s'.\n", rowsAffected, *email)
}

func printUsage() {
	fmt.Println("Admin tool for the outreach contacts database.")
	fmt.Println("\nUsage:")
	fmt.Println("  go run ./cmd/admin <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  init          Create the contacts table.")
	fmt.Println("  add           Add a single contact.")
	fmt.Println("  import        Import contacts from a CSV file.")
	fmt.Println("  list          List all contacts.")
	fmt.Println("  delete        Delete contacts by email address.")
	fmt.Println("\nRun a command without arguments for its flags, e.g.:")
	fmt.Println("  go run ./cmd/admin add")
}
