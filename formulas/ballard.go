package formulas

// BallardScores holds the New Ballard criteria. Unscored criteria are -1,
// which counts as zero in the total.
type BallardScores struct {
	Posture        int `json:"posture"`
	SquareWindow   int `json:"squareWindow"`
	ArmRecoil      int `json:"armRecoil"`
	PoplitealAngle int `json:"poplitealAngle"`
	ScarfSign      int `json:"scarfSign"`
	HeelToEar      int `json:"heelToEar"`

	Skin           int `json:"skin"`
	Lanugo         int `json:"lanugo"`
	PlantarSurface int `json:"plantarSurface"`
	Breast         int `json:"breast"`
	EyeEar         int `json:"eyeEar"`
	Genitals       int `json:"genitals"`
}

// NewBallardScores returns a form with every criterion unscored.
func NewBallardScores() BallardScores {
	return BallardScores{
		Posture: -1, SquareWindow: -1, ArmRecoil: -1,
		PoplitealAngle: -1, ScarfSign: -1, HeelToEar: -1,
		Skin: -1, Lanugo: -1, PlantarSurface: -1,
		Breast: -1, EyeEar: -1, Genitals: -1,
	}
}

func (s BallardScores) neuromuscular() []int {
	return []int{s.Posture, s.SquareWindow, s.ArmRecoil, s.PoplitealAngle, s.ScarfSign, s.HeelToEar}
}

func (s BallardScores) physical() []int {
	return []int{s.Skin, s.Lanugo, s.PlantarSurface, s.Breast, s.EyeEar, s.Genitals}
}

// BallardResult is the maturity rating of a newborn.
type BallardResult struct {
	Neuromuscular  int    `json:"neuromuscular"`
	Physical       int    `json:"physical"`
	Total          int    `json:"total"`
	Weeks          int    `json:"weeks"`
	Interpretation string `json:"interpretation"`
}

type ballardBucket struct {
	maxScore       int
	weeks          int
	interpretation string
}

var ballardTable = []ballardBucket{
	{-10, 20, "Extremely premature"},
	{-5, 22, "Extremely premature"},
	{0, 24, "Extremely premature"},
	{5, 26, "Very premature"},
	{10, 28, "Very premature"},
	{15, 30, "Moderately premature"},
	{20, 32, "Moderately premature"},
	{25, 34, "Late preterm"},
	{30, 36, "Late preterm"},
	{35, 38, "Term"},
	{40, 40, "Term"},
	{45, 42, "Post-term"},
}

// BallardGestationalAge maps a total score to weeks, 5 points per 2 weeks.
func BallardGestationalAge(score int) (int, string) {
	for _, b := range ballardTable {
		if score <= b.maxScore {
			return b.weeks, b.interpretation
		}
	}
	return 44, "Post-term"
}

func sumClamped(scores []int) int {
	total := 0
	for _, v := range scores {
		if v > 0 {
			total += v
		}
	}
	return total
}

// Ballard totals the criteria and estimates the gestational age.
func Ballard(s BallardScores) BallardResult {
	res := BallardResult{
		Neuromuscular: sumClamped(s.neuromuscular()),
		Physical:      sumClamped(s.physical()),
	}
	res.Total = res.Neuromuscular + res.Physical
	res.Weeks, res.Interpretation = BallardGestationalAge(res.Total)
	return res
}
