package server

import (
	"sync"

	apperrors "github.com/misexecutive/minda-corp/internal/errors"
	"github.com/misexecutive/minda-corp/models"
)

// ProjectStore is an in-memory project repository preserving insertion order.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]*models.Project
	order    []string
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[string]*models.Project)}
}

func (st *ProjectStore) Create(p models.Project) {
	st.mu.Lock()
	defer st.mu.Unlock()

	stored := p
	st.projects[p.ProjectID] = &stored
	st.order = append(st.order, p.ProjectID)
}

func (st *ProjectStore) Get(projectID string) (*models.Project, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	p, ok := st.projects[projectID]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (st *ProjectStore) ListAll() []models.Project {
	st.mu.RLock()
	defer st.mu.RUnlock()

	all := make([]models.Project, 0, len(st.order))
	for _, id := range st.order {
		all = append(all, *st.projects[id])
	}
	return all
}

func (st *ProjectStore) ListByAssignee(userID string) []models.Project {
	st.mu.RLock()
	defer st.mu.RUnlock()

	mine := make([]models.Project, 0)
	for _, id := range st.order {
		if st.projects[id].AssigneeUserID == userID {
			mine = append(mine, *st.projects[id])
		}
	}
	return mine
}

// SetStatusLatest mirrors the newest update remark onto the project row.
func (st *ProjectStore) SetStatusLatest(projectID, remark string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if p, ok := st.projects[projectID]; ok {
		p.StatusLatest = remark
	}
}

// UpdateStore keeps the append-only status history per project.
type UpdateStore struct {
	mu        sync.RWMutex
	byProject map[string][]models.ProjectUpdate
}

func NewUpdateStore() *UpdateStore {
	return &UpdateStore{byProject: make(map[string][]models.ProjectUpdate)}
}

func (st *UpdateStore) Append(projectID string, update models.ProjectUpdate) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.byProject[projectID] = append(st.byProject[projectID], update)
}

// List returns a project's updates newest first.
func (st *UpdateStore) List(projectID string) []models.ProjectUpdate {
	st.mu.RLock()
	defer st.mu.RUnlock()

	stored := st.byProject[projectID]
	updates := make([]models.ProjectUpdate, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		updates = append(updates, stored[i])
	}
	return updates
}
