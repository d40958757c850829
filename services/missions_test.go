package services

import (
	"time"

	"galaxymath/db"
	"galaxymath/models"
)

func (s *ServiceSuite) TestBoardIsCreatedLazilyWithStreakTarget() {
	id := s.pilot("nova", func(u *models.User) { u.Streak = 4 })

	daily, err := s.missions.Today(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(s.today(), daily.Date)
	s.Require().Len(daily.Missions, 3)

	streak := daily.Missions[1]
	s.Equal(MissionStreak, streak.ID)
	s.Equal(5, streak.Target)
	s.Equal("Reach 5 Day Streak", streak.Text)
	for _, m := range daily.Missions {
		s.False(m.Complete, m.ID)
		s.False(m.Claimed, m.ID)
	}

	// a second read does not reset the board
	again, err := s.missions.Today(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(daily, again)
}

func (s *ServiceSuite) TestClaimLifecycle() {
	id := s.pilot("nova", nil)

	_, err := s.missions.Claim(s.ctx, id, MissionPlay)
	s.ErrorIs(err, ErrMissionIncomplete)

	_, err = s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 2})
	s.Require().NoError(err)

	res, err := s.missions.Claim(s.ctx, id, MissionPlay)
	s.Require().NoError(err)
	s.Equal(20, res.Reward)
	s.Equal(20, res.Coins)
	s.True(res.Mission.Claimed)

	_, err = s.missions.Claim(s.ctx, id, MissionPlay)
	s.ErrorIs(err, db.ErrMissionAlreadyClaimed)
	s.Equal(20, s.load(id).Coins)

	s.Contains(s.events.types(), models.EventMissionClaimed)
}

func (s *ServiceSuite) TestClaimUnknownMission() {
	id := s.pilot("nova", nil)
	_, err := s.missions.Claim(s.ctx, id, "warp")
	s.ErrorIs(err, ErrUnknownMission)
}

func (s *ServiceSuite) TestStreakAndCoinMissions() {
	id := s.pilot("nova", func(u *models.User) {
		u.Streak = 2
		u.LastPlayedDate = s.yesterday()
	})

	for i := 0; i < 5; i++ {
		_, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 5})
		s.Require().NoError(err)
	}

	daily, err := s.missions.Today(s.ctx, id)
	s.Require().NoError(err)
	for _, m := range daily.Missions {
		s.True(m.Complete, m.ID)
		s.Equal(m.Target, m.Progress, m.ID)
	}

	res, err := s.missions.Claim(s.ctx, id, MissionStreak)
	s.Require().NoError(err)
	s.Equal(50+5*CoinBonus, res.Coins)

	res, err = s.missions.Claim(s.ctx, id, MissionCoins)
	s.Require().NoError(err)
	s.Equal(30+50+5*CoinBonus, res.Coins)
}

func (s *ServiceSuite) TestClaimedRewardsDoNotCountTowardsCoinMission() {
	id := s.pilot("nova", nil)
	for i := 0; i < 4; i++ {
		_, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 9})
		s.Require().NoError(err)
	}
	_, err := s.missions.Claim(s.ctx, id, MissionPlay)
	s.Require().NoError(err)

	_, err = s.missions.Claim(s.ctx, id, MissionCoins)
	s.ErrorIs(err, ErrMissionIncomplete)
}

func (s *ServiceSuite) TestNewDayStartsNewBoard() {
	id := s.pilot("nova", nil)
	_, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 2})
	s.Require().NoError(err)
	_, err = s.missions.Claim(s.ctx, id, MissionPlay)
	s.Require().NoError(err)

	s.clock.Advance(24 * time.Hour)
	daily, err := s.missions.Today(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(s.today(), daily.Date)
	s.Equal(2, daily.Missions[1].Target)
	s.False(daily.Missions[0].Claimed)
	s.Zero(daily.Missions[0].Progress)
}

func (s *ServiceSuite) TestBuildMissionsCapsProgress() {
	board := &models.MissionBoard{StreakTarget: 3, RoundsPlayed: 7, CoinsEarned: 80, BestStreak: 2, Claimed: []string{MissionPlay}}
	missions := BuildMissions(board)

	s.Equal(1, missions[0].Progress)
	s.True(missions[0].Claimed)
	s.Equal(2, missions[1].Progress)
	s.False(missions[1].Complete)
	s.Equal(50, missions[2].Progress)
	s.True(missions[2].Complete)
}
