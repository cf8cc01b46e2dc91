package physics

// Rect 以中心点描述的轴对齐矩形
type Rect struct {
	X, Y float64
	W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X-r.W/2 && x <= r.X+r.W/2 && y >= r.Y-r.H/2 && y <= r.Y+r.H/2
}

// Level 静态地形：地面块、平台与终点
type Level struct {
	Width  float64
	Ground []Rect
	Goal   Rect
}

// DemoLevel 3000 宽的演示关卡：y=568 的整条地面加九个平台，终点在 2800
func DemoLevel() Level {
	lv := Level{
		Width: 3000,
		// 地面按整条矩形建模，顶面 y=552
		Ground: []Rect{{X: 1492, Y: 568, W: 3016, H: 32}},
		Goal:   Rect{X: 2800, Y: 500, W: 64, H: 64},
	}
	for _, p := range [][2]float64{
		{300, 450}, {600, 350}, {900, 250},
		{1200, 400}, {1500, 300}, {1800, 200},
		{2100, 350}, {2400, 400}, {2700, 300},
	} {
		lv.Ground = append(lv.Ground, Rect{X: p[0], Y: p[1], W: 128, H: 32})
	}
	return lv
}
