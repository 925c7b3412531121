package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"chat-hub/domain/event"
	"chat-hub/transport/ws"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

// Terminal chat client. Logs in over REST, joins over websocket, then
// turns stdin lines into send frames:
//
//	/dm <userId> <text>      direct message
//	/gm <groupId> <text>     group message
//	/join <groupId>          subscribe to a group room
//	/leave <groupId>         unsubscribe
func main() {
	server := flag.String("server", "http://localhost:8080", "Hub base URL")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	token, err := login(*server, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	color.Green.Println("Logged in.")

	wsURL := strings.Replace(*server, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("Websocket dial failed: %v", err)
	}
	defer conn.Close()

	if err := send(conn, ws.ActionJoin, ws.JoinPayload{Token: token}); err != nil {
		log.Fatalf("Join failed: %v", err)
	}

	go receive(conn)

	scanner := bufio.NewScanner(os.Stdin)
	color.Cyan.Println("Ready. Type /dm, /gm, /join or /leave.")
	for scanner.Scan() {
		if err := handleLine(conn, scanner.Text()); err != nil {
			color.Red.Printf("! %v\n", err)
		}
	}
}

func login(server, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	response, err := http.Post(server+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %s", response.Status)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

func handleLine(conn *websocket.Conn, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "/dm":
		if len(fields) < 3 {
			return fmt.Errorf("usage: /dm <userId> <text>")
		}
		return send(conn, ws.ActionSendDirect, ws.DirectMessagePayload{
			RecipientID: fields[1],
			Content:     strings.Join(fields[2:], " "),
		})
	case "/gm":
		if len(fields) < 3 {
			return fmt.Errorf("usage: /gm <groupId> <text>")
		}
		return send(conn, ws.ActionSendGroup, ws.GroupMessagePayload{
			GroupID: fields[1],
			Content: strings.Join(fields[2:], " "),
		})
	case "/join":
		if len(fields) != 2 {
			return fmt.Errorf("usage: /join <groupId>")
		}
		return send(conn, ws.ActionJoinGroup, ws.GroupPayload{GroupID: fields[1]})
	case "/leave":
		if len(fields) != 2 {
			return fmt.Errorf("usage: /leave <groupId>")
		}
		return send(conn, ws.ActionLeaveGroup, ws.GroupPayload{GroupID: fields[1]})
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func send(conn *websocket.Conn, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(ws.Envelope{Action: action, Payload: raw})
}

func receive(conn *websocket.Conn) {
	for {
		var envelope ws.Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			color.Red.Println("Connection lost.")
			os.Exit(1)
		}

		switch envelope.Action {
		case event.ActionNewDirectMessage:
			var e event.NewDirectMessage
			if json.Unmarshal(envelope.Payload, &e) == nil {
				color.Yellow.Printf("[dm] %s: %s\n", e.Message.Author.Username, e.Message.Content)
			}
		case event.ActionNewGroupMessage:
			var e event.NewGroupMessage
			if json.Unmarshal(envelope.Payload, &e) == nil {
				color.Magenta.Printf("[%s] %s: %s\n", e.GroupID, e.Message.Author.Username, e.Message.Content)
			}
		case event.ActionMessageSent:
			color.Gray.Println("(sent)")
		case event.ActionError:
			var e event.Error
			if json.Unmarshal(envelope.Payload, &e) == nil {
				color.Red.Printf("! %s\n", e.Message)
			}
		}
	}
}
