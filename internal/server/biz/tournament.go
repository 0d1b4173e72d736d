package biz

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/objects"
	"github.com/arenax/arenax/internal/pkg/querycache"
	"github.com/arenax/arenax/internal/pkg/xtime"
	"github.com/arenax/arenax/internal/refresh"
	"github.com/arenax/arenax/internal/server/db"
)

type RegisterTeamInput struct {
	Name         string `json:"name"`
	CaptainName  string `json:"captainName"`
	CaptainPhone string `json:"captainPhone"`
	CaptainEmail string `json:"captainEmail"`
	LogoURL      string `json:"logoUrl"`
}

type PostAnnouncementInput struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Pinned bool   `json:"pinned"`
}

type ScheduleMatchInput struct {
	Round      int    `json:"round"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
}

type TournamentServiceParams struct {
	fx.In

	Store       *db.Store
	Bus         *eventbus.Bus
	QueryClient *querycache.Client
}

type TournamentService struct {
	*AbstractService

	standings *refresh.Query[[]objects.Standing]
}

func NewTournamentService(params TournamentServiceParams) *TournamentService {
	svc := &TournamentService{
		AbstractService: &AbstractService{
			store: params.Store,
			bus:   params.Bus,
		},
	}

	svc.standings = refresh.NewQuery(
		params.QueryClient,
		params.Bus,
		refresh.Key(objects.ResourceStandings),
		svc.loadStandings,
		refresh.QueryOptions{
			WatchKeys: []string{objects.ResourceStandings, objects.ResourceTeams},
			QueryOptions: querycache.QueryOptions{
				RefetchOnFocus:     true,
				RefetchOnReconnect: true,
			},
		},
		refresh.WithName("standings"),
	)

	return svc
}

// Start mounts the standings binding.
func (svc *TournamentService) Start(ctx context.Context) error {
	svc.standings.Mount(ctx)
	return nil
}

// Stop unmounts the standings binding.
func (svc *TournamentService) Stop(ctx context.Context) error {
	svc.standings.Unmount(ctx)
	return nil
}

func (svc *TournamentService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (*objects.Team, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainName = strings.TrimSpace(input.CaptainName)
	input.CaptainPhone = strings.TrimSpace(input.CaptainPhone)
	input.CaptainEmail = strings.TrimSpace(input.CaptainEmail)

	switch {
	case input.Name == "":
		return nil, invalidInput("team name is required")
	case input.CaptainName == "":
		return nil, invalidInput("captain name is required")
	case input.CaptainPhone == "":
		return nil, invalidInput("captain phone is required")
	}

	if input.CaptainEmail != "" {
		if _, err := mail.ParseAddress(input.CaptainEmail); err != nil {
			return nil, invalidInput("captain email is invalid")
		}
	}

	_, err := svc.store.GetTeamByName(ctx, input.Name)
	if err == nil {
		return nil, ErrTeamNameTaken
	}

	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up team: %w", err)
	}

	now := xtime.UTCNow()
	team := &objects.Team{
		ID:           uuid.NewString(),
		Name:         input.Name,
		CaptainName:  input.CaptainName,
		CaptainPhone: input.CaptainPhone,
		CaptainEmail: input.CaptainEmail,
		Status:       objects.TeamStatusPendingPayment,
		LogoURL:      strings.TrimSpace(input.LogoURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := svc.store.CreateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	log.Info(ctx, "team registered", log.String("team_id", team.ID), log.String("name", team.Name))

	svc.publishChanged(ctx, objects.ResourceTeams)

	return team, nil
}

func (svc *TournamentService) ListTeams(ctx context.Context) ([]*objects.Team, error) {
	return svc.store.ListTeams(ctx)
}

func (svc *TournamentService) GetTeam(ctx context.Context, id string) (*objects.Team, error) {
	team, err := svc.store.GetTeam(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrTeamNotFound)
	}

	return team, nil
}

func (svc *TournamentService) PostAnnouncement(ctx context.Context, input PostAnnouncementInput) (*objects.Announcement, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, invalidInput("title is required")
	}

	a := &objects.Announcement{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Body:      input.Body,
		Pinned:    input.Pinned,
		CreatedAt: xtime.UTCNow(),
	}

	if err := svc.store.CreateAnnouncement(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	svc.publishChanged(ctx, objects.ResourceAnnouncements)

	return a, nil
}

func (svc *TournamentService) ListAnnouncements(ctx context.Context) ([]*objects.Announcement, error) {
	return svc.store.ListAnnouncements(ctx)
}

func (svc *TournamentService) ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (*objects.Match, error) {
	switch {
	case input.Round < 1:
		return nil, invalidInput("round must be positive")
	case input.HomeTeamID == "" || input.AwayTeamID == "":
		return nil, invalidInput("both teams are required")
	case input.HomeTeamID == input.AwayTeamID:
		return nil, invalidInput("a team cannot play itself")
	}

	for _, id := range []string{input.HomeTeamID, input.AwayTeamID} {
		if _, err := svc.GetTeam(ctx, id); err != nil {
			return nil, err
		}
	}

	m := &objects.Match{
		ID:         uuid.NewString(),
		Round:      input.Round,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Status:     objects.MatchStatusScheduled,
		CreatedAt:  xtime.UTCNow(),
	}

	if err := svc.store.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	svc.publishChanged(ctx, objects.ResourceMatches)

	return m, nil
}

// RecordResult completes a scheduled match.
func (svc *TournamentService) RecordResult(ctx context.Context, id string, home, away int) (*objects.Match, error) {
	if home < 0 || away < 0 {
		return nil, invalidInput("scores must not be negative")
	}

	m, err := svc.store.GetMatch(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrMatchNotFound)
	}

	if m.Status != objects.MatchStatusScheduled {
		return nil, ErrMatchAlreadyCompleted
	}

	playedAt := xtime.UTCNow()

	ok, err := svc.store.CompleteMatch(ctx, id, home, away, playedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	// Lost a race with another writer.
	if !ok {
		return nil, ErrMatchAlreadyCompleted
	}

	m.HomeScore = home
	m.AwayScore = away
	m.Status = objects.MatchStatusCompleted
	m.PlayedAt = &playedAt

	log.Info(ctx, "match result recorded",
		log.String("match_id", id),
		log.Int("home_score", home),
		log.Int("away_score", away))

	svc.publishChanged(ctx, objects.ResourceMatches, objects.ResourceStandings)

	return m, nil
}

func (svc *TournamentService) ListMatches(ctx context.Context) ([]*objects.Match, error) {
	return svc.store.ListMatches(ctx)
}

// Standings returns the cached league table. The cache entry is invalidated
// by changes to teams or standings.
func (svc *TournamentService) Standings(ctx context.Context) ([]objects.Standing, error) {
	rows, err := svc.standings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []objects.Standing{}
	}

	return rows, nil
}

func (svc *TournamentService) loadStandings(ctx context.Context) ([]objects.Standing, error) {
	teams, err := svc.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	matches, err := svc.store.ListCompletedMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	return ComputeStandings(teams, matches), nil
}
