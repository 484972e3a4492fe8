package cmd

import (
	"os"

	"github.com/jsphweid/pianola/library"
	"github.com/jsphweid/pianola/player"
	"github.com/pkg/errors"
)

// resolveScore accepts either a score path or the id of a library song.
func resolveScore(arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	store, err := openStore()
	if err != nil {
		return "", err
	}
	song, err := store.Get(arg)
	if err != nil {
		return "", errors.Wrapf(err, "%s is neither a score nor a song id", arg)
	}
	return library.ScorePath(song)
}

func newPlayer(out player.Output) (*player.Player, error) {
	var velocity player.VelocityPolicy = player.FixedVelocity(settings.AccompanyVelocity)
	if settings.UseUserVelocity {
		velocity = player.FollowUserVelocity{Fallback: settings.AccompanyVelocity}
	}
	p := player.New(out, player.WithVelocity(velocity))
	p.SetRole(player.Role(settings.Role))
	p.SetHands(player.Hands(settings.Hands))
	if err := p.SetSpeed(settings.Speed); err != nil {
		return nil, err
	}
	return p, nil
}
