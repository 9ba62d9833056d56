package port

// Sample port ids.
const (
	KyivID  = 1
	OdesaID = 2
)

// Sample coordinates.
var (
	Kyiv  = Coordinates{50.4501, 30.5234}
	Odesa = Coordinates{46.4825, 30.7233}
)

// Samples returns freshly created sample ports.
func Samples() []*Port {
	return []*Port{
		New(KyivID, Kyiv),
		New(OdesaID, Odesa),
	}
}
