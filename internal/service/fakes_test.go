package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/models"
)

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

type fakeGuild struct {
	id, name   string
	systemCh   string
	writable   map[string]bool
	banErr     error
	unbanErr   error
	panicOnBan bool
	mu         sync.Mutex
	bans       []string
	banReasons []string
	unbans     []string
	sent       []sentEmbed
}

func newFakeGuild(id string) *fakeGuild {
	return &fakeGuild{id: id, name: "Guild " + id, writable: map[string]bool{}}
}

func (g *fakeGuild) ID() string              { return g.id }
func (g *fakeGuild) Name() string            { return g.name }
func (g *fakeGuild) SystemChannelID() string { return g.systemCh }

func (g *fakeGuild) CanSend(channelID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writable[channelID]
}

func (g *fakeGuild) Ban(ctx context.Context, userID, reason string) error {
	if g.panicOnBan {
		panic("ban exploded")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bans = append(g.bans, userID)
	g.banReasons = append(g.banReasons, reason)
	return g.banErr
}

func (g *fakeGuild) Unban(ctx context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unbans = append(g.unbans, userID)
	return g.unbanErr
}

func (g *fakeGuild) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentEmbed{channelID: channelID, embed: embed})
	return nil
}

func (g *fakeGuild) banCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.bans...)
}

func (g *fakeGuild) unbanCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.unbans...)
}

func (g *fakeGuild) sentEmbeds() []sentEmbed {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentEmbed(nil), g.sent...)
}

type fakePlatform struct {
	guilds []*fakeGuild
	dmErr  error
	mu     sync.Mutex
	dms    []string
}

func newFakePlatform(n int) *fakePlatform {
	p := &fakePlatform{}
	for i := 1; i <= n; i++ {
		g := newFakeGuild(fmt.Sprintf("g%d", i))
		g.systemCh = "sys-" + g.id
		g.writable[g.systemCh] = true
		p.guilds = append(p.guilds, g)
	}
	return p
}

func (p *fakePlatform) Guilds() []Guild {
	out := make([]Guild, len(p.guilds))
	for i, g := range p.guilds {
		out[i] = g
	}
	return out
}

func (p *fakePlatform) Guild(id string) (Guild, bool) {
	for _, g := range p.guilds {
		if g.id == id {
			return g, true
		}
	}
	return nil, false
}

func (p *fakePlatform) DirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dms = append(p.dms, userID)
	return p.dmErr
}

type fakeStore struct {
	mu       sync.Mutex
	now      func() time.Time
	nextID   uint
	bans     map[string]models.GlobalBan
	channels map[string]string
	err      error
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{now: now, bans: map[string]models.GlobalBan{}, channels: map[string]string{}}
}

func (s *fakeStore) AddBan(ctx context.Context, identity, issuedBy, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.bans[identity]; ok {
		return false, nil
	}
	s.nextID++
	s.bans[identity] = models.GlobalBan{ID: s.nextID, DiscordID: identity, BannedBy: issuedBy, Reason: reason, Timestamp: s.now()}
	return true, nil
}

func (s *fakeStore) RemoveBan(ctx context.Context, identity string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.bans[identity]; !ok {
		return 0, nil
	}
	delete(s.bans, identity)
	return 1, nil
}

func (s *fakeStore) ListBans(ctx context.Context) ([]models.GlobalBan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.GlobalBan, 0, len(s.bans))
	for _, b := range s.bans {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *fakeStore) SetLogChannel(ctx context.Context, guildID, channelID, setBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.channels[guildID] = channelID
	return nil
}

func (s *fakeStore) GetAllLogChannels(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]string, len(s.channels))
	for k, v := range s.channels {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bans)
}

func (s *fakeStore) record(id string) (models.GlobalBan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bans[id]
	return b, ok
}

type fakeMirror struct {
	mu    sync.Mutex
	texts []string
}

func (m *fakeMirror) Mirror(ctx context.Context, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
}

// manualClock is advanced explicitly by tests.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
