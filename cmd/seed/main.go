package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"chat-hub/auth"
	"chat-hub/domain"
	"chat-hub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

const seedPassword = "ComplexPass123!"

type seedAccount struct {
	username  string
	firstName string
	lastName  string
}

var seedAccounts = []seedAccount{
	{"alice", "Alice", "Martin"},
	{"bob", "Bob", "Durand"},
	{"clara", "Clara", "Petit"},
}

// Populates a fresh database with demo accounts, a mutual friendship and
// one group, so the client can be tried without going through the API
// first. All accounts share the same password.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	friendships := repositories.NewFriendshipRepository(db)
	groups := repositories.NewGroupRepository(db)

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatal("Hashing failed: ", err)
	}

	created := make([]repositories.User, 0, len(seedAccounts))
	for _, account := range seedAccounts {
		user, err := users.CreateUser(repositories.NewUser{
			Username:     account.username,
			Email:        account.username + "@chat.local",
			FirstName:    account.firstName,
			LastName:     account.lastName,
			PasswordHash: hash,
		})
		if err != nil {
			log.Fatalf("Creating %s failed: %v", account.username, err)
		}
		created = append(created, user)
	}

	// alice <-> bob are friends, clara stays a pending requester
	if _, err := friendships.CreateRequest(created[0].ID, created[1].ID); err != nil {
		log.Fatal("Friend request failed: ", err)
	}
	if _, err := friendships.Respond(created[1].ID, created[0].ID, true); err != nil {
		log.Fatal("Friend accept failed: ", err)
	}
	if _, err := friendships.CreateRequest(created[2].ID, created[0].ID); err != nil {
		log.Fatal("Friend request failed: ", err)
	}

	group, err := groups.CreateGroup("general", "Everyone is welcome", created[0].ID)
	if err != nil {
		log.Fatal("Group creation failed: ", err)
	}
	for _, user := range created[1:] {
		if err := groups.AddMember(group.ID, user.ID, domain.RoleMember); err != nil {
			log.Fatal("Adding member failed: ", err)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Email", "User ID"})
	table.SetBorder(false)
	for _, user := range created {
		table.Append([]string{user.Username, user.Email, user.ID})
	}
	table.Render()

	fmt.Printf("\nGroup %q: %s\nPassword for every account: %s\n",
		group.Name, group.ID, seedPassword)
}
