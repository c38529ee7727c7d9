package board

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/dori/focusboard/internal/model"
)

// ErrProjectNotFound is returned when a project lookup matches nothing.
var ErrProjectNotFound = errors.New("project not found")

// Deleter is implemented by adapters that can drop a key outright.
type Deleter interface {
	Delete(key string) error
}

// Projects is the list of boards, persisted as one JSON array.
type Projects struct {
	kv    KV
	opts  Options
	items []model.Project
}

// OpenProjects loads the project list. Read errors are logged and yield an empty list.
func OpenProjects(kv KV, opts Options) *Projects {
	p := &Projects{kv: kv, opts: opts.withDefaults()}
	raw, ok, err := kv.Get(model.ProjectsKey)
	if err != nil {
		p.opts.Logger.Error().Err(err).Msg("load projects")
		return p
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &p.items); err != nil {
			p.opts.Logger.Error().Err(err).Msg("decode projects")
			p.items = nil
		}
	}
	return p
}

// List returns the projects in creation order
func (p *Projects) List() []model.Project {
	return slices.Clone(p.items)
}

// Get returns the project with the given id
func (p *Projects) Get(id string) (model.Project, bool) {
	i := p.index(id)
	if i < 0 {
		return model.Project{}, false
	}
	return p.items[i], true
}

// Find resolves a project by id, then by case-insensitive title.
func (p *Projects) Find(ref string) (model.Project, error) {
	if pr, ok := p.Get(ref); ok {
		return pr, nil
	}
	for _, pr := range p.items {
		if strings.EqualFold(pr.Title, strings.TrimSpace(ref)) {
			return pr, nil
		}
	}
	return model.Project{}, ErrProjectNotFound
}

// Add creates a project. Blank titles are ignored.
func (p *Projects) Add(title, color string) (model.Project, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Project{}, false
	}
	id := p.opts.NewID()
	for p.index(id) >= 0 {
		id = p.opts.NewID()
	}
	pr := model.Project{ID: id, Title: title, Color: color}
	p.items = append(p.items, pr)
	p.save()
	return pr, true
}

// Rename retitles a project
func (p *Projects) Rename(id, title string) bool {
	title = strings.TrimSpace(title)
	i := p.index(id)
	if i < 0 || title == "" || p.items[i].Title == title {
		return false
	}
	p.items[i].Title = title
	p.save()
	return true
}

// SetColor changes a project's accent color
func (p *Projects) SetColor(id, color string) bool {
	i := p.index(id)
	if i < 0 || p.items[i].Color == color {
		return false
	}
	p.items[i].Color = color
	p.save()
	return true
}

// Delete removes a project and, when the adapter supports it, its board snapshot.
func (p *Projects) Delete(id string) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.items = slices.Delete(p.items, i, i+1)
	p.save()
	if d, ok := p.kv.(Deleter); ok {
		if err := d.Delete(model.BoardKey(id)); err != nil {
			p.opts.Logger.Error().Err(err).Str("board", id).Msg("delete board snapshot")
		}
	}
	return true
}

func (p *Projects) index(id string) int {
	return slices.IndexFunc(p.items, func(pr model.Project) bool { return pr.ID == id })
}

func (p *Projects) save() {
	items := p.items
	if items == nil {
		items = []model.Project{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		p.opts.Logger.Error().Err(err).Msg("encode projects")
		return
	}
	if err := p.kv.Set(model.ProjectsKey, string(data)); err != nil {
		p.opts.Logger.Error().Err(err).Str("key", model.ProjectsKey).Msg("persist projects")
	}
}
