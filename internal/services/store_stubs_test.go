package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/ritual/internal/models"
	"gorm.io/gorm"
)

type transactorStub struct {
	calls int
	err   error
}

func (stub *transactorStub) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	stub.calls++
	if stub.err != nil {
		return stub.err
	}
	return fn(ctx)
}

type userStoreStub struct {
	users      map[string]models.User
	order      []string
	existsErr  error
	createErr  error
	deleted    []string
	lastUpdate string
}

func newUserStoreStub(users ...models.User) *userStoreStub {
	stub := &userStoreStub{users: make(map[string]models.User)}
	for _, user := range users {
		stub.users[user.ID] = user
		stub.order = append(stub.order, user.ID)
	}
	return stub
}

func (stub *userStoreStub) Exists(_ context.Context, userID string) (bool, error) {
	if stub.existsErr != nil {
		return false, stub.existsErr
	}
	_, ok := stub.users[userID]
	return ok, nil
}

func (stub *userStoreStub) ListOrdered(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(stub.order))
	for _, id := range stub.order {
		if user, ok := stub.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (stub *userStoreStub) ExistsByNormalizedEmail(_ context.Context, email string) (bool, error) {
	for _, user := range stub.users {
		if strings.ToLower(strings.TrimSpace(user.Email)) == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *userStoreStub) ExistsByNormalizedUsername(_ context.Context, username string) (bool, error) {
	for _, user := range stub.users {
		if strings.ToLower(strings.TrimSpace(user.Username)) == username {
			return true, nil
		}
	}
	return false, nil
}

func (stub *userStoreStub) FindByNormalizedEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range stub.users {
		if strings.ToLower(strings.TrimSpace(user.Email)) == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *userStoreStub) FindByID(_ context.Context, userID string) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *userStoreStub) Create(_ context.Context, user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	if user.ID == "" {
		user.ID = models.NewID()
	}
	stub.users[user.ID] = *user
	stub.order = append(stub.order, user.ID)
	return nil
}

func (stub *userStoreStub) UpdateProfile(_ context.Context, userID string, bio string, avatarURL string) error {
	user := stub.users[userID]
	user.Bio = bio
	user.AvatarURL = avatarURL
	stub.users[userID] = user
	return nil
}

func (stub *userStoreStub) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	user := stub.users[userID]
	user.PasswordHash = passwordHash
	stub.users[userID] = user
	stub.lastUpdate = userID
	return nil
}

func (stub *userStoreStub) DeleteAccountAndRelatedData(_ context.Context, userID string) error {
	delete(stub.users, userID)
	stub.deleted = append(stub.deleted, userID)
	return nil
}

type activityStoreStub struct {
	entries   map[string]models.DailyActivity
	upserts   int
	findErr   error
	upsertErr error
}

func newActivityStoreStub() *activityStoreStub {
	return &activityStoreStub{entries: make(map[string]models.DailyActivity)}
}

func activityKey(userID string, day time.Time) string {
	return userID + "|" + day.Format(CalendarDateLayout)
}

func (stub *activityStoreStub) FindByUserAndDay(_ context.Context, userID string, day time.Time) (models.DailyActivity, bool, error) {
	if stub.findErr != nil {
		return models.DailyActivity{}, false, stub.findErr
	}
	entry, ok := stub.entries[activityKey(userID, day)]
	return entry, ok, nil
}

func (stub *activityStoreStub) Upsert(_ context.Context, entry *models.DailyActivity) error {
	stub.upserts++
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	stub.entries[activityKey(entry.UserID, entry.ActivityDate)] = *entry
	return nil
}

func (stub *activityStoreStub) ListByUserRange(_ context.Context, userID string, fromStart *time.Time, toEnd *time.Time) ([]models.DailyActivity, error) {
	entries := make([]models.DailyActivity, 0)
	for _, entry := range stub.entries {
		if entry.UserID != userID {
			continue
		}
		if fromStart != nil && entry.ActivityDate.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !entry.ActivityDate.Before(*toEnd) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ActivityDate.Before(entries[j].ActivityDate)
	})
	return entries, nil
}

func (stub *activityStoreStub) SumPoints(_ context.Context, userID string) (int, error) {
	total := 0
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			total += entry.Points
		}
	}
	return total, nil
}

type streakStoreStub struct {
	streaks     map[string]models.Streak
	lockedReads int
	saveErr     error
}

func newStreakStoreStub() *streakStoreStub {
	return &streakStoreStub{streaks: make(map[string]models.Streak)}
}

func (stub *streakStoreStub) FindByUser(_ context.Context, userID string) (models.Streak, bool, error) {
	streak, ok := stub.streaks[userID]
	return streak, ok, nil
}

func (stub *streakStoreStub) FindByUserForUpdate(ctx context.Context, userID string) (models.Streak, bool, error) {
	stub.lockedReads++
	return stub.FindByUser(ctx, userID)
}

func (stub *streakStoreStub) Save(_ context.Context, streak *models.Streak) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.streaks[streak.UserID] = *streak
	return nil
}

func (stub *streakStoreStub) ListAll(_ context.Context) ([]models.Streak, error) {
	streaks := make([]models.Streak, 0, len(stub.streaks))
	for _, streak := range stub.streaks {
		streaks = append(streaks, streak)
	}
	sort.Slice(streaks, func(i, j int) bool { return streaks[i].UserID < streaks[j].UserID })
	return streaks, nil
}

func (stub *streakStoreStub) ListAlive(ctx context.Context) ([]models.Streak, error) {
	all, _ := stub.ListAll(ctx)
	alive := make([]models.Streak, 0)
	for _, streak := range all {
		if streak.CurrentStreak > 0 && streak.LastActiveDate != nil {
			alive = append(alive, streak)
		}
	}
	return alive, nil
}

type junkLimitStoreStub struct {
	limits map[string]map[string]models.JunkLimit
}

func newJunkLimitStoreStub() *junkLimitStoreStub {
	return &junkLimitStoreStub{limits: make(map[string]map[string]models.JunkLimit)}
}

func (stub *junkLimitStoreStub) set(userID string, junkType string, maxQuantity int) {
	if stub.limits[userID] == nil {
		stub.limits[userID] = make(map[string]models.JunkLimit)
	}
	stub.limits[userID][junkType] = models.JunkLimit{
		ID:          models.NewID(),
		UserID:      userID,
		JunkType:    junkType,
		MaxQuantity: maxQuantity,
	}
}

func (stub *junkLimitStoreStub) FindMaxQuantity(_ context.Context, userID string, junkType string) (int, bool, error) {
	limit, ok := stub.limits[userID][junkType]
	return limit.MaxQuantity, ok, nil
}

func (stub *junkLimitStoreStub) ListByUser(_ context.Context, userID string) ([]models.JunkLimit, error) {
	limits := make([]models.JunkLimit, 0)
	for _, limit := range stub.limits[userID] {
		limits = append(limits, limit)
	}
	sort.Slice(limits, func(i, j int) bool { return limits[i].JunkType < limits[j].JunkType })
	return limits, nil
}

func (stub *junkLimitStoreStub) InsertMissing(_ context.Context, limits []models.JunkLimit) error {
	for _, limit := range limits {
		if _, ok := stub.limits[limit.UserID][limit.JunkType]; ok {
			continue
		}
		stub.set(limit.UserID, limit.JunkType, limit.MaxQuantity)
	}
	return nil
}

func (stub *junkLimitStoreStub) Upsert(_ context.Context, limit *models.JunkLimit) error {
	if existing, ok := stub.limits[limit.UserID][limit.JunkType]; ok {
		existing.MaxQuantity = limit.MaxQuantity
		stub.limits[limit.UserID][limit.JunkType] = existing
		return nil
	}
	stub.set(limit.UserID, limit.JunkType, limit.MaxQuantity)
	return nil
}

type workoutStoreStub struct {
	plans       map[string]models.WorkoutPlan
	completions map[string]models.WorkoutCompletion
	upsertErr   error
}

func newWorkoutStoreStub() *workoutStoreStub {
	return &workoutStoreStub{
		plans:       make(map[string]models.WorkoutPlan),
		completions: make(map[string]models.WorkoutCompletion),
	}
}

func (stub *workoutStoreStub) FindPlan(_ context.Context, userID string) (models.WorkoutPlan, bool, error) {
	plan, ok := stub.plans[userID]
	return plan, ok, nil
}

func (stub *workoutStoreStub) SavePlan(_ context.Context, plan *models.WorkoutPlan) error {
	stub.plans[plan.UserID] = *plan
	return nil
}

func (stub *workoutStoreStub) FindCompletion(_ context.Context, userID string, day time.Time) (models.WorkoutCompletion, bool, error) {
	entry, ok := stub.completions[activityKey(userID, day)]
	return entry, ok, nil
}

func (stub *workoutStoreStub) UpsertCompletion(_ context.Context, entry *models.WorkoutCompletion) error {
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	if entry.ID == "" {
		entry.ID = models.NewID()
	}
	stub.completions[activityKey(entry.UserID, entry.CompletionDate)] = *entry
	return nil
}

func (stub *workoutStoreStub) ListCompletions(_ context.Context, userID string) ([]models.WorkoutCompletion, error) {
	entries := make([]models.WorkoutCompletion, 0)
	for _, entry := range stub.completions {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CompletionDate.Before(entries[j].CompletionDate)
	})
	return entries, nil
}

func (stub *workoutStoreStub) SumPoints(_ context.Context, userID string) (int, error) {
	total := 0
	for _, entry := range stub.completions {
		if entry.UserID == userID {
			total += entry.PointsAwarded
		}
	}
	return total, nil
}

func (stub *workoutStoreStub) SumPointsByUser(_ context.Context) (map[string]int, error) {
	totals := make(map[string]int)
	for _, entry := range stub.completions {
		totals[entry.UserID] += entry.PointsAwarded
	}
	return totals, nil
}
