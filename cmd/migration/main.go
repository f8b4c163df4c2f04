package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-web/internal/config"
	"gitlab.com/dirk.krummacker/contacts-web/internal/store"
)

// Usage example on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/database.sql
func main() {
	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	sqlDB, err := store.Open(cfg.DSN())
	if err != nil {
		panic(err)
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	statements := splitStatements(readFile)
	for _, statement := range statements {
		db.MustExec(statement)
	}
	fmt.Printf("executed %d statements from %s\n", len(statements), *filePtr)
}

// splitStatements reads the script line by line and cuts it into statements at every line that
// contains a ';'. Lines starting with "--" are comments and skipped.
func splitStatements(script io.Reader) []string {
	var statements []string
	fileScanner := bufio.NewScanner(script)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			statements = append(statements, builder.String())
			builder = strings.Builder{}
		}
	}
	return statements
}
