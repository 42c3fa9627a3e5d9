package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

// Action identifies a menu button.
type Action string

// Menu actions.
const (
	ActionServerStatus Action = "server_status"
	ActionNewPost      Action = "new_post"
	ActionFindDogs     Action = "find_dogs"
	ActionCreateDog    Action = "create_dog"
	ActionFindDog      Action = "find_dog"
	ActionUpdateDog    Action = "update_dog"
)

// Button is one menu entry.
type Button struct {
	Text   string `json:"text"`
	Action Action `json:"action"`
}

// Reply is what the engine sends back to the user.
type Reply struct {
	Text string     `json:"text"`
	Menu [][]Button `json:"menu,omitempty"`
}

// Menu returns the static three-row menu offered after every interaction.
func Menu() [][]Button {
	return [][]Button{
		{{Text: "Server status", Action: ActionServerStatus}, {Text: "New post", Action: ActionNewPost}},
		{{Text: "Find dogs by kind", Action: ActionFindDogs}, {Text: "Find dog by pk", Action: ActionFindDog}},
		{{Text: "Add dog", Action: ActionCreateDog}, {Text: "Update dog", Action: ActionUpdateDog}},
	}
}

func (a Action) valid() bool {
	switch a {
	case ActionServerStatus, ActionNewPost, ActionFindDogs, ActionCreateDog, ActionFindDog, ActionUpdateDog:
		return true
	}
	return false
}

const (
	msgServerError = "Server error, please try again later."
	msgAPIError    = "API returned an error:"
	msgNoDogs      = "No dogs of this kind yet."

	promptKind   = "Choose a kind: terrier, bulldog or dalmatian."
	promptCreate = "Send the dog as:\nname: <name>, pk: <unique number>, kind: <terrier|bulldog|dalmatian>\n" +
		"Example: name: Lassie, pk: 12, kind: dalmatian"
	promptLookup = "Send the pk of the dog."
	promptUpdate = "Send the new data as:\nold_pk: <current pk>, name: <name>, pk: <new or same pk>, kind: <terrier|bulldog|dalmatian>\n" +
		"Example: old_pk: 12, name: Lassie, pk: 13, kind: dalmatian"
)

func greeting(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello, %s! What would you like to do?", name)
}

func formatDog(d domain.Dog) string {
	return fmt.Sprintf("name: %s, pk: %d, kind: %s", d.Name, d.PK, d.Kind)
}

func formatDogs(dogs []domain.Dog) string {
	if len(dogs) == 0 {
		return msgNoDogs
	}
	lines := make([]string, len(dogs))
	for i, d := range dogs {
		lines[i] = formatDog(d)
	}
	return strings.Join(lines, "\n")
}

func formatPost(p domain.Post) string {
	return fmt.Sprintf("id: %d, timestamp: %d", p.ID, p.Timestamp)
}

// formatError shows 4xx messages verbatim and hides everything else.
func formatError(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return msgServerError
	}
	var b strings.Builder
	b.WriteString(msgAPIError)
	for _, d := range apiErr.Details {
		if d.Msg == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(d.Msg)
	}
	return b.String()
}
