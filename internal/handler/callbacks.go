package handler

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"discord-gban/internal/service"
)

const (
	listCustomIDPrefix = "gban:list:"
	pagePrev           = "prev"
	pageNext           = "next"

	// DefaultListTimeout is how long a list view stays navigable without input.
	DefaultListTimeout = 60 * time.Second
)

var (
	errViewExpired = errors.New("this list has expired, run /gban list again")
	errNotOwner    = errors.New("only the operator who ran this command can use these buttons")
)

// listView is one paginated /gban list reply.
type listView struct {
	id          string
	operatorID  string
	paginator   *service.Paginator
	interaction *discordgo.Interaction
	timer       *time.Timer
	// generation is bumped on every page turn; a timer only expires the
	// generation it was armed for.
	generation uint64
}

// pageRegistry keeps live list views and expires them after an idle timeout.
type pageRegistry struct {
	mu       sync.Mutex
	views    map[string]*listView
	timeout  time.Duration
	onExpire func(*listView)
}

func newPageRegistry(timeout time.Duration, onExpire func(*listView)) *pageRegistry {
	if timeout <= 0 {
		timeout = DefaultListTimeout
	}
	return &pageRegistry{
		views:    make(map[string]*listView),
		timeout:  timeout,
		onExpire: onExpire,
	}
}

// open registers a view and starts its idle timer.
func (r *pageRegistry) open(operatorID string, p *service.Paginator, interaction *discordgo.Interaction) *listView {
	v := &listView{
		id:          uuid.NewString(),
		operatorID:  operatorID,
		paginator:   p,
		interaction: interaction,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.id] = v
	r.arm(v)
	return v
}

// arm starts a fresh idle timer for the view's current generation. Callers hold r.mu.
func (r *pageRegistry) arm(v *listView) {
	if v.timer != nil {
		v.timer.Stop()
	}
	id, generation := v.id, v.generation
	v.timer = time.AfterFunc(r.timeout, func() { r.expire(id, generation) })
}

// navigate moves a view one page in dir, restarts its idle timer and
// renders the new page.
func (r *pageRegistry) navigate(viewID, userID, dir string) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[viewID]
	if !ok {
		return nil, nil, errViewExpired
	}
	if v.operatorID != userID {
		return nil, nil, errNotOwner
	}

	switch dir {
	case pagePrev:
		v.paginator.Prev()
	case pageNext:
		v.paginator.Next()
	}
	v.generation++
	r.arm(v)
	return v.paginator.Embed(), listComponents(v, false), nil
}

// expire drops the view unless it was used after the firing timer was armed.
func (r *pageRegistry) expire(viewID string, generation uint64) {
	r.mu.Lock()
	v, ok := r.views[viewID]
	if ok && v.generation != generation {
		r.mu.Unlock()
		return
	}
	delete(r.views, viewID)
	r.mu.Unlock()

	if ok && r.onExpire != nil {
		r.onExpire(v)
	}
}

func (r *pageRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// close stops every timer without running the expiry callback.
func (r *pageRegistry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.views {
		v.timer.Stop()
		delete(r.views, id)
	}
}

func listCustomID(viewID, dir string) string {
	return listCustomIDPrefix + viewID + ":" + dir
}

// parseListCustomID splits gban:list:<view>:<dir>.
func parseListCustomID(customID string) (viewID, dir string, ok bool) {
	rest, found := strings.CutPrefix(customID, listCustomIDPrefix)
	if !found {
		return "", "", false
	}
	viewID, dir, found = strings.Cut(rest, ":")
	if !found || viewID == "" || (dir != pagePrev && dir != pageNext) {
		return "", "", false
	}
	return viewID, dir, true
}

// listComponents renders the ◀/▶ row. Buttons are disabled at the ends
// and everywhere once the view expired.
func listComponents(v *listView, expired bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: listCustomID(v.id, pagePrev),
					Disabled: expired || !v.paginator.HasPrev(),
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: listCustomID(v.id, pageNext),
					Disabled: expired || !v.paginator.HasNext(),
				},
			},
		},
	}
}

// HandleListButton answers a press on a list view's navigation buttons.
func (h *Handler) HandleListButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	viewID, dir, ok := parseListCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	incrementCounter(&totalButtonPresses)

	user := interactionUser(i)
	if user == nil {
		return
	}

	embed, components, err := h.pages.navigate(viewID, user.ID, dir)
	if err != nil {
		h.respondEphemeral(s, i, service.ErrorEmbed(err.Error()))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		h.logFailure("update list view", err)
	}
}

// disableListView edits an expired view so its buttons can no longer be pressed.
func (h *Handler) disableListView(v *listView) {
	components := listComponents(v, true)
	if _, err := h.session.InteractionResponseEdit(v.interaction, &discordgo.WebhookEdit{
		Components: &components,
	}); err != nil {
		h.logFailure("disable list view", err)
	}
}
