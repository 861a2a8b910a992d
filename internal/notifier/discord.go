package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/campushq/campus-events-api/internal/models"
)

// Notifier posts campus announcements. Implementations must tolerate
// being called from request handlers; failures are logged, not surfaced.
type Notifier interface {
	EventCreated(event models.Event, college models.College) error
	RegistrationCreated(student models.Student, event models.Event, status string) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" || channelID == "" {
		return nil, fmt.Errorf("discord bot token and channel ID required")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

func (n *DiscordNotifier) EventCreated(event models.Event, college models.College) error {
	message := fmt.Sprintf("📅 **New Event**\n**%s** (%s)\n**College:** %s\n**Type:** %s\n**Starts:** %s\n**Location:** %s",
		event.Title,
		event.EventCode,
		college.Name,
		event.EventType,
		event.StartDate.Format("2006-01-02 15:04"),
		event.Location,
	)
	return n.send(message)
}

func (n *DiscordNotifier) RegistrationCreated(student models.Student, event models.Event, status string) error {
	message := fmt.Sprintf("🎉 **New Registration**\n**Student:** %s (%s)\n**Event:** %s (%s)\n**Status:** %s",
		student.FullName(),
		student.StudentID,
		event.Title,
		event.EventCode,
		status,
	)
	return n.send(message)
}

func (n *DiscordNotifier) send(message string) error {
	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
	}
	return err
}
