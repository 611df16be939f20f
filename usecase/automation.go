package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	domainAutomation "github.com/commentify/commentify/domains/automation"
	domainComment "github.com/commentify/commentify/domains/comment"
	domainProfile "github.com/commentify/commentify/domains/profile"
	domainSubscription "github.com/commentify/commentify/domains/subscription"
	pkgError "github.com/commentify/commentify/pkg/error"
	"github.com/commentify/commentify/pkg/instagram"
	"github.com/commentify/commentify/pkg/runworker"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type assignment struct {
	profile domainProfile.Profile
	text    string
}

type runState struct {
	snapshot  domainAutomation.RunSnapshot
	cancelled bool
}

type automationService struct {
	profileUC      domainProfile.IProfileUsecase
	commentUC      domainComment.ICommentUsecase
	subscriptionUC domainSubscription.ISubscriptionUsecase

	client   *instagram.Client
	pool     *runworker.Pool
	notifier domainAutomation.Notifier

	delay    time.Duration
	delayFor func(ctx context.Context) time.Duration
	sleep    func(time.Duration)
	rand     *rand.Rand

	mu   sync.Mutex
	runs map[string]*runState
}

// AutomationOptions carries the orchestration dependencies. Rand, Sleep and
// Delay are overridable so runs are deterministic and instant under test.
type AutomationOptions struct {
	Client   *instagram.Client
	Pool     *runworker.Pool
	Notifier domainAutomation.Notifier
	Delay    time.Duration
	// DelayProvider, when set, is consulted once per run and overrides
	// Delay. Runtime settings hook in here.
	DelayProvider func(ctx context.Context) time.Duration
	Sleep         func(time.Duration)
	Rand          *rand.Rand
}

func NewAutomationService(
	profileUC domainProfile.IProfileUsecase,
	commentUC domainComment.ICommentUsecase,
	subscriptionUC domainSubscription.ISubscriptionUsecase,
	opts AutomationOptions,
) domainAutomation.IAutomationUsecase {
	if opts.Client == nil {
		opts.Client = instagram.NewClient(instagram.ClientOptions{})
	}
	if opts.Notifier == nil {
		opts.Notifier = domainAutomation.NotifierFunc(func(domainAutomation.Event) {})
	}
	if opts.Delay <= 0 {
		opts.Delay = 2 * time.Second
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &automationService{
		profileUC:      profileUC,
		commentUC:      commentUC,
		subscriptionUC: subscriptionUC,
		client:         opts.Client,
		pool:           opts.Pool,
		notifier:       opts.Notifier,
		delay:          opts.Delay,
		delayFor:       opts.DelayProvider,
		sleep:          opts.Sleep,
		rand:           opts.Rand,
		runs:           make(map[string]*runState),
	}
}

func (s *automationService) StartRun(ctx context.Context, userID string, req domainAutomation.RunRequest) (domainAutomation.RunSnapshot, error) {
	state := &runState{
		snapshot: domainAutomation.RunSnapshot{
			ID:        uuid.NewString(),
			Status:    domainAutomation.StatusValidating,
			PostURL:   req.PostURL,
			StartedAt: time.Now(),
		},
	}

	// Reserve the user's run slot atomically with the reentrancy check, so
	// two simultaneous starts cannot both pass it. The slot is released on
	// any failure below, restoring the previous completed snapshot.
	s.mu.Lock()
	prev, hadPrev := s.runs[userID]
	if hadPrev && prev.snapshot.Status != domainAutomation.StatusCompleted {
		s.mu.Unlock()
		return domainAutomation.RunSnapshot{}, pkgError.ValidationError("Já existe uma automação em execução para este usuário.")
	}
	s.runs[userID] = state
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		if hadPrev {
			s.runs[userID] = prev
		} else {
			delete(s.runs, userID)
		}
		s.mu.Unlock()
	}

	if err := s.validateRequest(ctx, userID, req); err != nil {
		release()
		return domainAutomation.RunSnapshot{}, err
	}

	profiles, err := s.profileUC.GetByIDs(ctx, userID, req.ProfileIDs)
	if err != nil {
		release()
		return domainAutomation.RunSnapshot{}, err
	}
	comments, err := s.commentUC.GetByIDs(ctx, userID, req.CommentIDs)
	if err != nil {
		release()
		return domainAutomation.RunSnapshot{}, err
	}

	if len(comments) == 0 {
		release()
		return domainAutomation.RunSnapshot{}, pkgError.ValidationError("Selecione pelo menos um comentário!")
	}
	if len(profiles) == 0 {
		release()
		return domainAutomation.RunSnapshot{}, pkgError.ValidationError("Selecione pelo menos um perfil!")
	}
	if len(comments) < len(profiles) {
		release()
		return domainAutomation.RunSnapshot{}, pkgError.ValidationError("Você precisa ter pelo menos um comentário para cada perfil selecionado")
	}

	assignments := s.assign(profiles, comments)

	dispatched := s.pool.TryDispatch(runworker.RunJob{
		UserID: userID,
		Handler: func(jobCtx context.Context) {
			s.execute(jobCtx, userID, state, req.PostURL, assignments)
		},
	})
	if !dispatched {
		release()
		return domainAutomation.RunSnapshot{}, pkgError.InternalServerError("Fila de automação cheia. Tente novamente em instantes.")
	}

	logrus.Infof("[AUTOMATION] Run %s scheduled for %s: %d profiles, %d comments", state.snapshot.ID, userID, len(profiles), len(comments))
	return s.snapshotOf(userID)
}

// validateRequest applies the pre-flight checks in a fixed order. The first
// failure wins and nothing here performs I/O against Instagram.
func (s *automationService) validateRequest(ctx context.Context, userID string, req domainAutomation.RunRequest) error {
	if !s.subscriptionUC.CanAutomate(ctx, userID) {
		return &instagram.Error{Kind: instagram.ErrUpgradeRequired, Message: "Faça upgrade do seu plano para usar a automação"}
	}

	platform := req.Platform
	if platform == "" {
		platform = domainProfile.PlatformInstagram
	}
	if platform != domainProfile.PlatformInstagram {
		return pkgError.ValidationError("platform: automação disponível apenas para Instagram.")
	}

	if req.PostURL == "" {
		return pkgError.ValidationError("Digite a URL da publicação")
	}
	if !instagram.ValidPostURL(req.PostURL) {
		return &instagram.Error{Kind: instagram.ErrInvalidURL, Message: "URL do Instagram inválida! Use uma URL de post (ex: https://www.instagram.com/p/xyz123)"}
	}
	if len(req.CommentIDs) == 0 {
		return pkgError.ValidationError("Selecione pelo menos um comentário!")
	}
	if len(req.ProfileIDs) == 0 {
		return pkgError.ValidationError("Selecione pelo menos um perfil!")
	}
	if len(req.CommentIDs) < len(req.ProfileIDs) {
		return pkgError.ValidationError("Você precisa ter pelo menos um comentário para cada perfil selecionado")
	}
	return nil
}

// assign shuffles the selected comments and pairs profile[i] with
// shuffled[i mod n]. Every profile posts exactly once per run.
func (s *automationService) assign(profiles []domainProfile.Profile, comments []domainComment.Comment) []assignment {
	shuffled := make([]domainComment.Comment, len(comments))
	copy(shuffled, comments)
	s.mu.Lock()
	s.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	assignments := make([]assignment, len(profiles))
	for i, p := range profiles {
		assignments[i] = assignment{profile: p, text: shuffled[i%len(shuffled)].Text}
	}
	return assignments
}

func (s *automationService) execute(ctx context.Context, userID string, state *runState, postURL string, assignments []assignment) {
	s.setStatus(state, domainAutomation.StatusRunning)

	delay := s.delay
	if s.delayFor != nil {
		if d := s.delayFor(ctx); d > 0 {
			delay = d
		}
	}

	var postID string
	for _, a := range assignments {
		if s.isCancelled(state) {
			logrus.Infof("[AUTOMATION] Run %s cancelled for %s", state.snapshot.ID, userID)
			break
		}

		var proxy *instagram.Proxy
		var err error
		if a.profile.Proxy != "" {
			proxy, err = instagram.ParseProxy(a.profile.Proxy)
		}

		if err == nil && postID == "" {
			postID, err = s.client.ResolvePostID(ctx, postURL, proxy)
		}
		if err == nil {
			err = s.client.AddComment(ctx, postID, postURL, a.profile.Cookie, proxy, a.text)
		}

		if err == nil {
			s.recordAttempt(state, true)
			s.notify(state, domainAutomation.LevelSuccess, fmt.Sprintf("Comentário enviado com sucesso na conta %s", a.profile.Name), a.profile.Name)
		} else {
			s.recordAttempt(state, false)
			s.notify(state, domainAutomation.LevelError, fmt.Sprintf("Erro na conta %s: %s", a.profile.Name, err.Error()), a.profile.Name)
			if igErr, ok := err.(*instagram.Error); ok &&
				(igErr.Kind == instagram.ErrAccessDenied || igErr.Kind == instagram.ErrMalformedCookie) {
				logrus.Warnf("[AUTOMATION] Skipping profile %s after auth failure", a.profile.Name)
			}
		}

		s.sleep(delay)
	}

	s.finish(state)

	counters := s.counters(state)
	if counters.Success > 0 {
		noun := "comentários enviados"
		if counters.Success == 1 {
			noun = "comentário enviado"
		}
		s.notify(state, domainAutomation.LevelSuccess, fmt.Sprintf("Automação concluída! %d %s com sucesso.", counters.Success, noun), "")
	}
	if counters.Failed > 0 {
		noun := "comentários falharam"
		if counters.Failed == 1 {
			noun = "comentário falhou"
		}
		s.notify(state, domainAutomation.LevelError, fmt.Sprintf("%d %s. Verifique os erros acima.", counters.Failed, noun), "")
	}

	logrus.Infof("[AUTOMATION] Run %s finished for %s: %d total, %d success, %d failed",
		state.snapshot.ID, userID, counters.Total, counters.Success, counters.Failed)
}

func (s *automationService) GetRun(ctx context.Context, userID string) (domainAutomation.RunSnapshot, error) {
	return s.snapshotOf(userID)
}

func (s *automationService) CancelRun(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.runs[userID]
	if !ok || state.snapshot.Status == domainAutomation.StatusCompleted {
		return pkgError.ValidationError("Nenhuma automação em execução.")
	}
	state.cancelled = true
	return nil
}

// --- Helpers ---

func (s *automationService) snapshotOf(userID string) (domainAutomation.RunSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.runs[userID]
	if !ok {
		return domainAutomation.RunSnapshot{}, pkgError.NotFoundError("Nenhuma automação encontrada para este usuário.")
	}
	return state.snapshot, nil
}

func (s *automationService) setStatus(state *runState, status domainAutomation.RunStatus) {
	s.mu.Lock()
	state.snapshot.Status = status
	s.mu.Unlock()
}

func (s *automationService) finish(state *runState) {
	s.mu.Lock()
	now := time.Now()
	state.snapshot.Status = domainAutomation.StatusCompleted
	state.snapshot.FinishedAt = &now
	s.mu.Unlock()
}

func (s *automationService) isCancelled(state *runState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.cancelled
}

func (s *automationService) recordAttempt(state *runState, success bool) {
	s.mu.Lock()
	state.snapshot.Counters.Total++
	if success {
		state.snapshot.Counters.Success++
	} else {
		state.snapshot.Counters.Failed++
	}
	s.mu.Unlock()
}

func (s *automationService) counters(state *runState) domainAutomation.Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.snapshot.Counters
}

func (s *automationService) notify(state *runState, level domainAutomation.EventLevel, message, profileName string) {
	s.notifier.Notify(domainAutomation.Event{
		RunID:       state.snapshot.ID,
		Level:       level,
		Message:     message,
		ProfileName: profileName,
		Counters:    s.counters(state),
	})
}
