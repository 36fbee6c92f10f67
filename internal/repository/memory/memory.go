// Package memory provides an in-memory implementation of the repository
// interfaces. It is safe for concurrent use and is intended for tests and
// local development (database.driver=memory).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock.
type Store struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	seq          int64
	users        map[primitive.ObjectID]userRow
	workoutPlans map[primitive.ObjectID]domain.WorkoutPlan
	nutrition    map[primitive.ObjectID]domain.NutritionPlan
	appointments map[primitive.ObjectID]domain.Appointment
	now          func() time.Time
}

// userRow keeps insertion order so equal timestamps still sort newest first.
type userRow struct {
	user domain.User
	seq  int64
}

var (
	_ repository.UserRepository        = (*userRepo)(nil)
	_ repository.WorkoutPlanRepository = (*workoutPlanRepo)(nil)
	_ repository.NutritionRepository   = (*nutritionRepo)(nil)
	_ repository.AppointmentRepository = (*appointmentRepo)(nil)
	_ repository.TxRunner              = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:        make(map[primitive.ObjectID]userRow),
		workoutPlans: make(map[primitive.ObjectID]domain.WorkoutPlan),
		nutrition:    make(map[primitive.ObjectID]domain.NutritionPlan),
		appointments: make(map[primitive.ObjectID]domain.Appointment),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Repositories returns the store's repositories bundled for the services.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Users:        &userRepo{s},
		WorkoutPlans: &workoutPlanRepo{s},
		Nutrition:    &nutritionRepo{s},
		Appointments: &appointmentRepo{s},
		Tx:           s,
	}
}

type txKey struct{}

// txJournal holds the pre-image of every user written inside a transaction.
// A nil entry means the user did not exist before. Guarded by Store.mu.
type txJournal struct {
	users map[primitive.ObjectID]*userRow
}

// WithinTransaction serialises transactions and, when fn fails, restores only
// the users fn wrote. Writes made outside the transaction are kept.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &txJournal{users: make(map[primitive.ObjectID]*userRow)}
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		s.mu.Lock()
		for id, pre := range j.users {
			if pre == nil {
				delete(s.users, id)
				continue
			}
			s.users[id] = *pre
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// recordUser saves the pre-image of id when ctx belongs to a transaction.
// Caller holds the write lock.
func (s *Store) recordUser(ctx context.Context, id primitive.ObjectID) {
	j, ok := ctx.Value(txKey{}).(*txJournal)
	if !ok {
		return
	}
	if _, seen := j.users[id]; seen {
		return
	}
	row, exists := s.users[id]
	if !exists {
		j.users[id] = nil
		return
	}
	row.user = cloneUser(row.user)
	j.users[id] = &row
}

// Users ---------------------------------------------------------------------

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.users {
		if row.user.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}

	user.ID = primitive.NewObjectID()
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.recordUser(ctx, user.ID)
	s.seq++
	s.users[user.ID] = userRow{user: cloneUser(*user), seq: s.seq}
	return user.ID, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.users {
		if row.user.Email == email {
			u := cloneUser(row.user)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := cloneUser(row.user)
	return &u, nil
}

func matchesUser(u domain.User, f domain.UserFilter) bool {
	if f.Role != "" && !u.Role.Matches(f.Role) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Name), needle) && !strings.Contains(strings.ToLower(u.Email), needle) {
			return false
		}
	}
	return true
}

// sortedUsers returns matching rows newest first. Caller holds the read lock.
func (s *Store) sortedUsers(f domain.UserFilter) []userRow {
	rows := make([]userRow, 0, len(s.users))
	for _, row := range s.users {
		if matchesUser(row.user, f) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].user.CreatedAt.Equal(rows[j].user.CreatedAt) {
			return rows[i].user.CreatedAt.After(rows[j].user.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	return rows
}

func (r *userRepo) List(_ context.Context, f domain.UserFilter, skip, limit int64) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.sortedUsers(f)
	users := make([]domain.User, 0)
	if skip < 0 || skip >= int64(len(rows)) {
		return users, nil
	}
	rows = rows[skip:]
	if limit > 0 && limit < int64(len(rows)) {
		rows = rows[:limit]
	}
	for _, row := range rows {
		users = append(users, cloneUser(row.user))
	}
	return users, nil
}

func (r *userRepo) Count(_ context.Context, f domain.UserFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, row := range r.s.users {
		if matchesUser(row.user, f) {
			n++
		}
	}
	return n, nil
}

func (r *userRepo) Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.recordUser(ctx, id)
	if update.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && other.user.Email == *update.Email {
				return nil, repository.ErrDuplicateKey
			}
		}
		row.user.Email = *update.Email
	}
	if update.Name != nil {
		row.user.Name = *update.Name
	}
	if update.Role != nil {
		row.user.Role = *update.Role
	}
	row.user.UpdatedAt = s.now()
	s.users[id] = row

	u := cloneUser(row.user)
	return &u, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error) {
	var out domain.User
	err := r.s.mutateUser(ctx, id, func(u *domain.User) {
		if update.Age != nil {
			age := *update.Age
			u.ProfileDetails.Age = &age
		}
		if update.Gender != nil {
			u.ProfileDetails.Gender = *update.Gender
		}
		if update.Weight != nil {
			w := *update.Weight
			u.ProfileDetails.Weight = &w
		}
		if update.Height != nil {
			h := *update.Height
			u.ProfileDetails.Height = &h
		}
		out = cloneUser(*u)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	r.s.recordUser(ctx, id)
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) SetAssignedTrainer(ctx context.Context, userID, trainerID primitive.ObjectID) error {
	return r.s.mutateUser(ctx, userID, func(u *domain.User) {
		t := trainerID
		u.AssignedTrainer = &t
	})
}

func (r *userRepo) ClearAssignedTrainer(ctx context.Context, userID primitive.ObjectID) error {
	return r.s.mutateUser(ctx, userID, func(u *domain.User) {
		u.AssignedTrainer = nil
	})
}

func (r *userRepo) AddClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	return r.s.mutateUser(ctx, trainerID, func(u *domain.User) {
		for _, id := range u.Clients {
			if id == clientID {
				return
			}
		}
		u.Clients = append(u.Clients, clientID)
	})
}

func (r *userRepo) RemoveClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	return r.s.mutateUser(ctx, trainerID, func(u *domain.User) {
		kept := u.Clients[:0]
		for _, id := range u.Clients {
			if id != clientID {
				kept = append(kept, id)
			}
		}
		u.Clients = kept
	})
}

func (s *Store) mutateUser(ctx context.Context, id primitive.ObjectID, fn func(u *domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.recordUser(ctx, id)
	fn(&row.user)
	row.user.UpdatedAt = s.now()
	s.users[id] = row
	return nil
}

func (r *userRepo) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	clients := make([]domain.User, 0)
	for _, row := range r.s.users {
		if row.user.IsAssignedTo(trainerID) {
			clients = append(clients, domain.User{
				ID:             row.user.ID,
				Name:           row.user.Name,
				Email:          row.user.Email,
				ProfileDetails: row.user.ProfileDetails,
			})
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (r *userRepo) ListClientsWithTrainers(_ context.Context) ([]domain.UserWithTrainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.UserWithTrainer, 0)
	for _, row := range r.s.sortedUsers(domain.UserFilter{Role: domain.RoleUser}) {
		item := domain.UserWithTrainer{User: cloneUser(row.user)}
		if row.user.HasTrainer() {
			if trainer, ok := r.s.users[*row.user.AssignedTrainer]; ok {
				item.Trainer = &domain.TrainerSummary{ID: trainer.user.ID, Name: trainer.user.Name}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func cloneUser(u domain.User) domain.User {
	if u.Clients != nil {
		u.Clients = append([]primitive.ObjectID(nil), u.Clients...)
	}
	if u.AssignedTrainer != nil {
		t := *u.AssignedTrainer
		u.AssignedTrainer = &t
	}
	return u
}

// Workout plans ---------------------------------------------------------------

type workoutPlanRepo struct{ s *Store }

func (r *workoutPlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if plan.Exercises == nil {
		plan.Exercises = []domain.Exercise{}
	}
	plan.ID = primitive.NewObjectID()
	now := r.s.now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	r.s.workoutPlans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r *workoutPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	plan, ok := r.s.workoutPlans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := clonePlan(plan)
	return &p, nil
}

func (r *workoutPlanRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	plans := make([]domain.WorkoutPlan, 0)
	for _, plan := range r.s.workoutPlans {
		if plan.ClientID == clientID {
			plans = append(plans, clonePlan(plan))
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

func (r *workoutPlanRepo) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.workoutPlans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if plan.Exercises == nil {
		plan.Exercises = []domain.Exercise{}
	}
	plan.UpdatedAt = r.s.now()
	stored.Exercises = plan.Exercises
	stored.Suggestion = plan.Suggestion
	stored.UpdatedAt = plan.UpdatedAt
	r.s.workoutPlans[plan.ID] = clonePlan(stored)
	return nil
}

func (r *workoutPlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.workoutPlans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.workoutPlans, id)
	return nil
}

func clonePlan(p domain.WorkoutPlan) domain.WorkoutPlan {
	p.Exercises = append([]domain.Exercise{}, p.Exercises...)
	return p
}

// Nutrition -------------------------------------------------------------------

type nutritionRepo struct{ s *Store }

func sameTrainer(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *nutritionRepo) AppendMeal(_ context.Context, userID primitive.ObjectID, trainerID *primitive.ObjectID, day time.Time, meal domain.Meal) (*domain.NutritionPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, plan := range r.s.nutrition {
		if plan.UserID == userID && sameTrainer(plan.TrainerID, trainerID) && plan.Day.Equal(day) {
			plan.Meals = append(append([]domain.Meal{}, plan.Meals...), meal)
			plan.TotalCalories += meal.TotalCalories
			r.s.nutrition[id] = plan
			out := cloneNutrition(plan)
			return &out, nil
		}
	}

	plan := domain.NutritionPlan{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Day:           day,
		Meals:         []domain.Meal{meal},
		TotalCalories: meal.TotalCalories,
		CreatedAt:     r.s.now(),
	}
	if trainerID != nil {
		t := *trainerID
		plan.TrainerID = &t
	}
	r.s.nutrition[plan.ID] = plan
	out := cloneNutrition(plan)
	return &out, nil
}

func (r *nutritionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.NutritionPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	plan, ok := r.s.nutrition[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneNutrition(plan)
	return &out, nil
}

func (r *nutritionRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.NutritionPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	plans := make([]domain.NutritionPlan, 0)
	for _, plan := range r.s.nutrition {
		if plan.UserID == userID {
			plans = append(plans, cloneNutrition(plan))
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Day.After(plans[j].Day) })
	return plans, nil
}

func (r *nutritionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.nutrition[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.nutrition, id)
	return nil
}

func cloneNutrition(p domain.NutritionPlan) domain.NutritionPlan {
	p.Meals = append([]domain.Meal{}, p.Meals...)
	return p
}

// Appointments ----------------------------------------------------------------

type appointmentRepo struct{ s *Store }

func (r *appointmentRepo) Create(_ context.Context, appt *domain.Appointment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	appt.ID = primitive.NewObjectID()
	if appt.Status == "" {
		appt.Status = domain.StatusPending
	}
	r.s.appointments[appt.ID] = *appt
	return appt.ID, nil
}

func (r *appointmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	appt, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &appt, nil
}

func (r *appointmentRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.filter(func(a domain.Appointment) bool { return a.UserID == userID }), nil
}

func (r *appointmentRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.filter(func(a domain.Appointment) bool { return a.TrainerID == trainerID }), nil
}

func (r *appointmentRepo) filter(keep func(domain.Appointment) bool) []domain.Appointment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Appointment, 0)
	for _, appt := range r.s.appointments {
		if keep(appt) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *appointmentRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.AppointmentStatus) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	appt, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	appt.Status = status
	r.s.appointments[id] = appt
	return &appt, nil
}

func (r *appointmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.appointments, id)
	return nil
}
