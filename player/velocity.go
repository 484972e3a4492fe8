package player

// VelocityPolicy picks the velocity for notes the player sounds itself, given
// the velocity of the human's last key press (0 before any).
type VelocityPolicy interface {
	Velocity(userVelocity int) int
}

type FixedVelocity int

func (v FixedVelocity) Velocity(int) int {
	return int(v)
}

// FollowUserVelocity accompanies as loud as the human plays.
type FollowUserVelocity struct {
	Fallback int
}

func (v FollowUserVelocity) Velocity(userVelocity int) int {
	if userVelocity > 0 {
		return userVelocity
	}
	return v.Fallback
}
