package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/autobrr/autobrr/pkg/errors"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/httputils"
)

// Discord caps messages at 10 embeds and 6000 characters.
const (
	maxEmbedsPerMessage = 10
	maxCharactersPerMsg = 6000

	// above this many groups the per-group detail is dropped and only the
	// summary embed goes out
	maxTotalFields = 250
)

type DiscordMessage struct {
	Content interface{}    `json:"content"`
	Embeds  []DiscordEmbed `json:"embeds,omitempty"`
}

type DiscordEmbed struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Color       int                  `json:"color"`
	Fields      []DiscordEmbedsField `json:"fields,omitempty"`
	Footer      DiscordEmbedsFooter  `json:"footer,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
}

type DiscordEmbedsFooter struct {
	Text string `json:"text"`
}

type DiscordEmbedsField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedColors int

const (
	LIGHT_BLUE EmbedColors = 0x58b9ff
	RED        EmbedColors = 0xed4245
	GREEN      EmbedColors = 0x57f287
	GRAY       EmbedColors = 0x99aab5
)

type discordSender struct {
	log    *logrus.Entry
	config config.NotificationsConfig

	httpClient *http.Client
}

func (d *discordSender) Name() string {
	return "discord"
}

func NewDiscordSender(log *logrus.Entry, config config.NotificationsConfig) Sender {
	l := log.WithField("sender", "discord")

	return &discordSender{
		log:    l,
		config: config,
		// webhooks tolerate one request a second without tripping 429s
		httpClient: httputils.NewRetryableHttpClient(time.Second*30,
			ratelimit.New(1, ratelimit.WithoutSlack), l),
	}
}

func (d *discordSender) CanSend() bool {
	return d.config.Service.Discord != ""
}

func (d *discordSender) Send(title string, description string, runTime time.Duration, fields []Field, dryRun bool) error {
	if len(fields) == 0 && d.config.SkipEmptyRun {
		return nil
	}

	if dryRun {
		title = title + " (Dry Run)"
	}

	batches, err := d.batchEmbeds(d.buildEmbeds(title, description, runTime, fields))
	if err != nil {
		return err
	}

	for i, batch := range batches {
		payload, err := json.Marshal(DiscordMessage{Content: nil, Embeds: batch})
		if err != nil {
			return errors.Wrap(err, "could not marshal json request for a message chunk")
		}

		if sendErr := d.sendRequest(payload); sendErr != nil {
			return errors.Wrap(sendErr, "failed to send a message chunk to Discord")
		}

		d.log.Debugf("Sent Discord message %d/%d (%d embeds, %d chars).",
			i+1, len(batches), len(batch), len(payload))
	}

	d.log.Debugf("All %d Discord messages sent successfully.", len(batches))
	return nil
}

// buildEmbeds renders the run as either a lone summary embed or one embed per
// duplicate group followed by a summary, depending on the detailed setting
// and the group count.
func (d *discordSender) buildEmbeds(title string, description string, runTime time.Duration, fields []Field) []DiscordEmbed {
	var (
		embeds    []DiscordEmbed
		timestamp = time.Now()
		rt        = runTime.Truncate(time.Millisecond).String()
	)

	if len(fields) == 0 || len(fields) > maxTotalFields || !d.config.Detailed {
		return append(embeds, DiscordEmbed{
			Title:       title,
			Description: description,
			Color:       int(LIGHT_BLUE),
			Footer:      DiscordEmbedsFooter{Text: d.buildFooter(0, len(fields), rt)},
			Timestamp:   timestamp,
		})
	}

	for i, field := range fields {
		embed := DiscordEmbed{
			Title:     title,
			Color:     int(LIGHT_BLUE),
			Fields:    d.parseFieldValueToInlineFields(field.Value),
			Footer:    DiscordEmbedsFooter{Text: d.buildFooter(i+1, len(fields), rt)},
			Timestamp: timestamp,
		}

		if field.Name != "" {
			embed.Description = fmt.Sprintf("**%s**", field.Name)
		}

		embeds = append(embeds, embed)
	}

	return append(embeds, DiscordEmbed{
		Title:       fmt.Sprintf("%s - Summary", title),
		Description: description,
		Color:       int(LIGHT_BLUE),
		Footer:      DiscordEmbedsFooter{Text: d.buildFooter(0, 0, rt)},
		Timestamp:   timestamp,
	})
}

// batchEmbeds splits embeds into per-message batches that respect both the
// embed count and the character limits.
func (d *discordSender) batchEmbeds(embeds []DiscordEmbed) ([][]DiscordEmbed, error) {
	var (
		batches [][]DiscordEmbed
		current []DiscordEmbed
		chars   int
	)

	for _, embed := range embeds {
		payload, err := json.Marshal(embed)
		if err != nil {
			return nil, errors.Wrap(err, "failed to calculate embed size for batching")
		}

		if len(current) >= maxEmbedsPerMessage || chars+len(payload) > maxCharactersPerMsg {
			if len(current) > 0 {
				batches = append(batches, current)
			}
			current = nil
			chars = 0
		}

		current = append(current, embed)
		chars += len(payload)
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches, nil
}

func (d *discordSender) sendRequest(jsonData []byte) error {
	req, err := http.NewRequest(http.MethodPost, d.config.Service.Discord, bytes.NewBuffer(jsonData))
	if err != nil {
		return errors.Wrap(err, "could not create request")
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := d.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "client request error")
	}
	defer res.Body.Close()

	d.log.Tracef("Discord response status: %d", res.StatusCode)

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusNoContent {
		body, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return errors.Wrap(readErr, "could not read body")
		}

		return errors.New("unexpected status: %v body: %v", res.StatusCode, string(body))
	}

	d.log.Debug("Notification successfully sent to discord")
	return nil
}

// BuildField constructs a Field based on the provided action and build options.
func (d *discordSender) BuildField(action Action, opt BuildOptions) Field {
	switch action {
	case ActionDedupe:
		return d.buildDedupeField(opt)
	}

	return Field{}
}

func (d *discordSender) buildDedupeField(opt BuildOptions) Field {
	inlineFields := []DiscordEmbedsField{
		{
			Name:   "Master",
			Value:  opt.Master,
			Inline: false,
		},
		{
			Name:   "Members",
			Value:  fmt.Sprintf("%d", opt.Members),
			Inline: true,
		},
		{
			Name:   "Relinked",
			Value:  fmt.Sprintf("%d", opt.Relinked),
			Inline: true,
		},
	}

	if opt.AlreadyLinked > 0 {
		inlineFields = append(inlineFields, DiscordEmbedsField{
			Name:   "Already Linked",
			Value:  fmt.Sprintf("%d", opt.AlreadyLinked),
			Inline: true,
		})
	}

	if opt.Skipped > 0 {
		inlineFields = append(inlineFields, DiscordEmbedsField{
			Name:   "Skipped",
			Value:  fmt.Sprintf("%d", opt.Skipped),
			Inline: true,
		})
	}

	if opt.Lost > 0 {
		inlineFields = append(inlineFields, DiscordEmbedsField{
			Name:   "Lost",
			Value:  fmt.Sprintf("%d", opt.Lost),
			Inline: true,
		})
	}

	inlineFields = append(inlineFields, DiscordEmbedsField{
		Name:   "Reclaimed",
		Value:  humanize.IBytes(opt.ReclaimedBytes),
		Inline: true,
	})

	// the group detail rides inside the field value as JSON until the embed
	// is assembled
	jsonData, _ := json.Marshal(inlineFields)

	return Field{
		Name:  fmt.Sprintf("Group #%d (%s)", opt.GroupIndex, humanize.IBytes(uint64(opt.Size))),
		Value: string(jsonData),
	}
}

func (d *discordSender) parseFieldValueToInlineFields(value string) []DiscordEmbedsField {
	var fields []DiscordEmbedsField

	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		d.log.WithError(err).Error("Failed to parse field value as JSON")
		return []DiscordEmbedsField{}
	}

	return fields
}

func (d *discordSender) buildFooter(progress int, totalFields int, runTime string) string {
	if totalFields == 0 {
		return fmt.Sprintf("Started: %s ago", runTime)
	}

	return fmt.Sprintf("Progress: %d/%d | Started: %s ago", progress, totalFields, runTime)
}
