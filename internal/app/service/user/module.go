package user

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) *TokenIssuer { return s.Tokens() }),
)
