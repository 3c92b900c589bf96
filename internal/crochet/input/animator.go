package input

// AnimationState: состояние плавного перехода вида.
type AnimationState int

const (
	Settled AnimationState = iota
	Animating
)

func (s AnimationState) String() string {
	if s == Animating {
		return "animating"
	}
	return "settled"
}

// Damping: доля расхождения, которую вид догоняет за один тик.
const Damping = 0.15

// Tick продвигает анимацию на один кадр. Вызывающая сторона тикает,
// пока состояние Animating.
func (c *Controller) Tick() AnimationState {
	if c.anim == Settled {
		return Settled
	}
	if !c.view.Step(Damping) {
		c.anim = Settled
	}
	return c.anim
}

func (c *Controller) Animation() AnimationState { return c.anim }

// animate переводит контроллер в Animating, если целевые значения отличаются от текущих.
func (c *Controller) animate() {
	if c.view.Settled() {
		c.anim = Settled
		return
	}
	c.anim = Animating
}
