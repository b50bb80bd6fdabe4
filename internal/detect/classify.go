package detect

// Calibrated classification constants. These weights, floors, and
// preconditions encode tuned behavior; changing any of them shifts category
// assignment across the whole corpus, so they live together here.
const (
	buildingMinArea   = 25
	buildingFloor     = 0.25
	buildingAreaNorm  = 2000.0
	buildingWArea     = 0.35
	buildingWFill     = 0.35
	buildingWCompact  = 0.30
	buildingAspectMax = 4.0

	bridgeMinAxis    = 20.0
	bridgeFloor      = 0.25
	bridgeWAspect    = 0.40
	bridgeWAxis      = 0.30
	bridgeWFill      = 0.30
	bridgeAspectBase = 2.0
	bridgeAspectSpan = 6.0
	bridgeAxisNorm   = 120.0

	wallMinAxis    = 30.0
	wallFloor      = 0.20
	wallWAspect    = 0.50
	wallWAxis      = 0.30
	wallWThin      = 0.20
	wallAspectBase = 3.0
	wallAspectSpan = 8.0
	wallAxisNorm   = 200.0

	riverMinArea    = 200
	riverFloor      = 0.20
	riverWArea      = 0.40
	riverWSparse    = 0.40
	riverWAspect    = 0.20
	riverAreaNorm   = 5000.0
	riverAspectBase = 1.5
	riverAspectSpan = 5.0

	urbanBaseline = 0.20
	urbanFillGain = 0.25
)

// Linearity override constants: a skeleton that is long relative to its
// component area indicates a man-made linear structure, which outranks the
// heuristic classifier's choice.
const (
	linearityThreshold = 0.25
	linearityMinAxis   = 20.0
	linearBridgeAspect = 3.0
	linearBridgeAxis   = 50.0
	linearityConfBoost = 0.15
)

// classifyUrbanFeature assigns a feature category from component shape
// metrics: pixel area, fill ratio (area / bbox area), aspect ratio
// (major/minor bbox side), and major axis length in pixels.
//
// Each candidate category has a weighted score over normalized terms
// clamped to [0,1], a minimum-size precondition, and a score floor. The
// best passing candidate wins; if none passes, the component falls back to
// the generic urban-feature category at a lower baseline score.
func classifyUrbanFeature(area int, fill, aspect, majorAxis float64) (Category, float64) {
	type candidate struct {
		category Category
		score    float64
		eligible bool
		floor    float64
	}

	building := buildingWArea*clamp01(float64(area)/buildingAreaNorm) +
		buildingWFill*clamp01(fill) +
		buildingWCompact*(1-clamp01((aspect-1)/buildingAspectMax))

	bridge := bridgeWAspect*clamp01((aspect-bridgeAspectBase)/bridgeAspectSpan) +
		bridgeWAxis*clamp01(majorAxis/bridgeAxisNorm) +
		bridgeWFill*clamp01(fill)

	wall := wallWAspect*clamp01((aspect-wallAspectBase)/wallAspectSpan) +
		wallWAxis*clamp01(majorAxis/wallAxisNorm) +
		wallWThin*(1-clamp01(fill))

	river := riverWArea*clamp01(float64(area)/riverAreaNorm) +
		riverWSparse*(1-clamp01(fill)) +
		riverWAspect*clamp01((aspect-riverAspectBase)/riverAspectSpan)

	candidates := []candidate{
		{CategoryBuilding, building, area >= buildingMinArea, buildingFloor},
		{CategoryBridge, bridge, majorAxis >= bridgeMinAxis, bridgeFloor},
		{CategoryBorderWall, wall, majorAxis >= wallMinAxis, wallFloor},
		{CategoryRiver, river, area >= riverMinArea, riverFloor},
	}

	best := candidate{category: CategoryUrbanFeature, score: -1}
	for _, c := range candidates {
		if c.eligible && c.score > c.floor && c.score > best.score {
			best = c
		}
	}
	if best.score >= 0 {
		return best.category, clamp01(best.score)
	}
	return CategoryUrbanFeature, clamp01(urbanBaseline + urbanFillGain*clamp01(fill))
}

// applyLinearityOverride reclassifies a component as bridge or border-wall
// when its skeleton linearity marks it as a linear structure. Returns the
// (possibly unchanged) category and confidence.
func applyLinearityOverride(category Category, confidence, linearity, aspect, majorAxis float64) (Category, float64) {
	if linearity <= linearityThreshold || majorAxis < linearityMinAxis {
		return category, confidence
	}
	if aspect > linearBridgeAspect || majorAxis > linearBridgeAxis {
		return CategoryBridge, clamp01(confidence + linearityConfBoost)
	}
	return CategoryBorderWall, clamp01(confidence + linearityConfBoost)
}
