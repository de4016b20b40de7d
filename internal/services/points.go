package services

const (
	stepPointsThreshold  = 6000
	stepPointsBase       = 30
	stepPointsIncrement  = 1000
	stepPointsPerBonus   = 5
	stepPointsBonusLimit = 10000
	stepPointsCap        = 50
	junkPenaltyPerUnit   = 5
	activeStepsThreshold = 5000
)

// StepPoints converts a day's steps into points: nothing below 6000, then
// 30 plus 5 per full 1000 steps up to 10000, never above 50.
func StepPoints(steps int) int {
	if steps < stepPointsThreshold {
		return 0
	}

	counted := min(steps, stepPointsBonusLimit)
	bonus := (counted - stepPointsThreshold) / stepPointsIncrement * stepPointsPerBonus
	return min(stepPointsBase+bonus, stepPointsCap)
}

// ComputePoints scores one day of activity. Junk above the allowance costs 5
// points per unit and the total may go negative.
func ComputePoints(steps int, junkQuantity int, maxAllowed int) int {
	points := StepPoints(steps)
	if junkQuantity > maxAllowed {
		points -= (junkQuantity - maxAllowed) * junkPenaltyPerUnit
	}
	return points
}

// IsActiveDay reports whether a day keeps the streak alive. Either enough
// steps or staying within the junk allowance is sufficient.
func IsActiveDay(steps int, junkQuantity int, maxAllowed int) bool {
	return steps >= activeStepsThreshold || junkQuantity <= maxAllowed
}
