package service

import (
	"context"
	"io"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
	"sort"
	"sync"
	"time"
)

type memQuizRepo struct {
	mu      sync.Mutex
	quizzes []model.Quiz
	writes  int
	err     error
}

func (r *memQuizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if quiz.ID == "" {
		quiz.ID = model.GenerateUUID()
	}
	r.writes++
	r.quizzes = append(r.quizzes, *quiz)
	return nil
}

func (r *memQuizRepo) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quizzes {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, util.ErrQuizNotFound
}

func (r *memQuizRepo) List(ctx context.Context, activeOnly bool) ([]model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Quiz
	for _, q := range r.quizzes {
		if !activeOnly || q.Active {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *memQuizRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	list, _ := r.List(ctx, activeOnly)
	return int64(len(list)), nil
}

type memStudentRepo struct {
	mu        sync.Mutex
	students  map[string]model.Student
	createErr error
	lookups   int
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{students: make(map[string]model.Student)}
}

func (r *memStudentRepo) Create(ctx context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.students {
		if existing.Username == s.Username {
			return util.ErrUsernameTaken
		}
		if existing.Email == s.Email {
			return util.ErrEmailRegistered
		}
	}
	if s.ID == "" {
		s.ID = model.GenerateUUID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.students[s.ID] = *s
	return nil
}

func (r *memStudentRepo) FindByID(ctx context.Context, id string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, util.ErrStudentNotFound
	}
	return &s, nil
}

func (r *memStudentRepo) FindByUsername(ctx context.Context, username string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	for _, s := range r.students {
		if s.Username == username {
			s := s
			return &s, nil
		}
	}
	return nil, util.ErrStudentNotFound
}

func (r *memStudentRepo) List(ctx context.Context) ([]model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memStudentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return util.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *memStudentRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students)), nil
}

// fakeIdentities 记录调用次数的身份服务替身，密码以明文比较
type fakeIdentities struct {
	mu        sync.Mutex
	byEmail   map[string]model.Identity
	passwords map[string]string
	calls     int
	verifyErr error
	createErr error
	deleteErr error
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{
		byEmail:   make(map[string]model.Identity),
		passwords: make(map[string]string),
	}
}

func (f *fakeIdentities) CreateUser(ctx context.Context, email, password string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	email = NormalizeEmail(email)
	if _, ok := f.byEmail[email]; ok {
		return nil, util.ErrEmailRegistered
	}
	id := model.Identity{Email: email}
	id.ID = model.GenerateUUID()
	f.byEmail[email] = id
	f.passwords[email] = password
	return &id, nil
}

func (f *fakeIdentities) VerifyPassword(ctx context.Context, email, password string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	email = NormalizeEmail(email)
	id, ok := f.byEmail[email]
	if !ok {
		return nil, util.ErrIdentityNotFound
	}
	if f.passwords[email] != password {
		return nil, util.ErrInvalidCredentials
	}
	return &id, nil
}

func (f *fakeIdentities) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for email, identity := range f.byEmail {
		if identity.ID == id {
			delete(f.byEmail, email)
			delete(f.passwords, email)
			return nil
		}
	}
	return util.ErrIdentityNotFound
}

func (f *fakeIdentities) has(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[NormalizeEmail(email)]
	return ok
}

func (f *fakeIdentities) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memSettingsRepo struct {
	settings *model.PlatformSettings
}

func (r *memSettingsRepo) Get(ctx context.Context) (*model.PlatformSettings, error) {
	if r.settings == nil {
		d := model.DefaultPlatformSettings()
		return &d, nil
	}
	s := *r.settings
	return &s, nil
}

func (r *memSettingsRepo) Save(ctx context.Context, s *model.PlatformSettings) error {
	s.ID = 1
	cp := *s
	r.settings = &cp
	return nil
}

type memUploader struct {
	files map[string][]byte
}

func (u *memUploader) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if u.files == nil {
		u.files = make(map[string][]byte)
	}
	u.files[filename] = data
	return util.LocalFilesURLPrefix + "/" + filename, nil
}

func (u *memUploader) Delete(ctx context.Context, filename string) error {
	if _, ok := u.files[filename]; !ok {
		return util.ErrFileNotFound
	}
	delete(u.files, filename)
	return nil
}
