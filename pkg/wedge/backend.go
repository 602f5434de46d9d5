package wedge

// Polygon — непрозрачный дескриптор геометрии. Им владеет создавший его
// бэкенд; ядро не заглядывает внутрь и не различает фигуры по содержимому,
// только по самому дескриптору.
type Polygon interface {
	// Rings возвращает замкнутые кольца (последняя вершина повторяет
	// первую), внешнее кольцо первым.
	Rings() [][]Point
	// Area — площадь в квадратных метрах.
	Area() float64
}

// Backend выполняет геометрические примитивы. Ядро само не строит ни
// дуг, ни булевых операций — только азимутальную математику и порядок
// вызовов.
//
// Каждый полученный дескриптор ядро освобождает через Release ровно один
// раз на любом пути выполнения. Чисто гошным бэкендам Release может быть
// не нужен, но контракт написан под бэкенды с внешними ресурсами.
// Операции над независимыми дескрипторами могут идти из разных горутин.
type Backend interface {
	// BufferPoint строит круг радиуса radius вокруг точки.
	BufferPoint(x, y, radius float64) (Polygon, error)
	// MakePolygon материализует замкнутое кольцо как дескриптор бэкенда.
	MakePolygon(ring []Point) (Polygon, error)
	// Intersect возвращает пересечение a и b.
	Intersect(a, b Polygon) (Polygon, error)
	// Subtract возвращает a минус b.
	Subtract(a, b Polygon) (Polygon, error)
	// Union объединяет набор в один полигон (допускается мультиконтур).
	Union(ps []Polygon) (Polygon, error)
	// Dissolve убирает внутренние границы и шовные вершины.
	Dissolve(p Polygon) (Polygon, error)
	// Release освобождает дескриптор. Повторный Release не требуется
	// быть безопасным: ядро зовет его один раз.
	Release(p Polygon)
}
