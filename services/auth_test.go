package services

import (
	"strings"
	"time"

	"galaxymath/db"
	"galaxymath/utils"
)

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func (s *ServiceSuite) TestRegisterAndLogin() {
	reg, err := s.auth.Register(s.ctx, "  astro  ", "rocket")
	s.Require().NoError(err)
	s.Equal("astro", reg.Username)
	s.Zero(reg.Streak)

	claims, err := s.auth.Verify(reg.Token)
	s.Require().NoError(err)
	s.Equal("astro", claims.Username)

	login, err := s.auth.Login(s.ctx, "astro", "rocket")
	s.Require().NoError(err)
	s.Equal("astro", login.Username)

	_, err = s.auth.Login(s.ctx, "astro", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.auth.Login(s.ctx, "nobody", "rocket")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestRegisterValidation() {
	_, err := s.auth.Register(s.ctx, "ab", "rocket")
	s.ErrorIs(err, ErrInvalidUsername)
	_, err = s.auth.Register(s.ctx, strings.Repeat("x", 33), "rocket")
	s.ErrorIs(err, ErrInvalidUsername)
	_, err = s.auth.Register(s.ctx, "astro", "abc")
	s.ErrorIs(err, ErrWeakPassword)

	_, err = s.auth.Register(s.ctx, "astro", "rocket")
	s.Require().NoError(err)
	_, err = s.auth.Register(s.ctx, "astro", "other")
	s.ErrorIs(err, db.ErrUsernameTaken)
}

func (s *ServiceSuite) TestGuest() {
	res, err := s.auth.Guest(s.ctx)
	s.Require().NoError(err)
	s.True(res.IsGuest)
	s.True(strings.HasPrefix(res.Username, "Guest_"))

	u, err := s.accounts.FindUserByUsername(s.ctx, res.Username)
	s.Require().NoError(err)
	s.True(u.IsGuest)

	claims, err := utils.ParseJWTToken(res.Token)
	s.Require().NoError(err)
	s.Equal(u.ID.Hex(), claims.UserID)
	s.WithinDuration(time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}
