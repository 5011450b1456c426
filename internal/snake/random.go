package snake

// RandomSource picks integers uniformly from [low, high). The engine calls it
// only when food has to be replaced, with low=0 and high > 0.
type RandomSource interface {
	RandomRange(low, high int) int
}

// RandomFunc adapts a plain function to RandomSource.
type RandomFunc func(low, high int) int

func (f RandomFunc) RandomRange(low, high int) int {
	return f(low, high)
}
