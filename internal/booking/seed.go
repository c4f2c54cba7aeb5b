package booking

// Sports with courts in the catalog. Requests for anything else are rejected
// before touching the store.
var validSports = map[string]struct{}{
	"raquetbol":  {},
	"tenis":      {},
	"padel":      {},
	"pickleball": {},
	"voleibol":   {},
	"baloncesto": {},
	"badminton":  {},
	"squash":     {},
}

// seedCourts is the fixed catalog written once, on first startup against an
// empty courts file.
var seedCourts = []Court{
	{ID: "r1", SportID: "raquetbol", Name: "Cancha Raquetbol 1", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha profesional con piso de madera", PricePerHour: 250},
	{ID: "r2", SportID: "raquetbol", Name: "Cancha Raquetbol 2", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha climatizada, iluminación LED", PricePerHour: 280},
	{ID: "r3", SportID: "raquetbol", Name: "Cancha Raquetbol 3", Status: "Disponible", Schedule: "8:00 AM - 8:00 PM", AvailableDays: "Lun-Sab", Features: "Cancha estándar con vestidores", PricePerHour: 220},
	{ID: "t1", SportID: "tenis", Name: "Cancha Tenis 1", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Superficie dura, iluminación nocturna", PricePerHour: 350},
	{ID: "t2", SportID: "tenis", Name: "Cancha Tenis 2", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Superficie dura profesional", PricePerHour: 350},
	{ID: "t3", SportID: "tenis", Name: "Cancha Tenis 3", Status: "Disponible", Schedule: "7:00 AM - 9:00 PM", AvailableDays: "Lun-Vie", Features: "Superficie sintética, ideal para principiantes", PricePerHour: 280},
	{ID: "t4", SportID: "tenis", Name: "Cancha Tenis VIP", Status: "Disponible", Schedule: "6:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha premium con gradas y equipamiento", PricePerHour: 450},
	{ID: "p1", SportID: "padel", Name: "Cancha Pádel 1", Status: "Disponible", Schedule: "7:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha de cristal panorámica", PricePerHour: 320},
	{ID: "p2", SportID: "padel", Name: "Cancha Pádel 2", Status: "Disponible", Schedule: "7:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Césped sintético premium", PricePerHour: 320},
	{ID: "p3", SportID: "padel", Name: "Cancha Pádel 3", Status: "Disponible", Schedule: "8:00 AM - 10:00 PM", AvailableDays: "Lun-Sab", Features: "Cancha techada con iluminación", PricePerHour: 300},
	{ID: "pk1", SportID: "pickleball", Name: "Cancha Pickleball 1", Status: "Disponible", Schedule: "6:00 AM - 9:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha doble, superficie acrílica", PricePerHour: 180},
	{ID: "pk2", SportID: "pickleball", Name: "Cancha Pickleball 2", Status: "Disponible", Schedule: "6:00 AM - 9:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha cubierta, equipamiento incluido", PricePerHour: 200},
	{ID: "pk3", SportID: "pickleball", Name: "Cancha Pickleball 3", Status: "Disponible", Schedule: "7:00 AM - 8:00 PM", AvailableDays: "Lun-Vie", Features: "Cancha estándar al aire libre", PricePerHour: 150},
	{ID: "v1", SportID: "voleibol", Name: "Cancha Voleibol Indoor 1", Status: "Disponible", Schedule: "6:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Piso de duela, red profesional", PricePerHour: 400},
	{ID: "v2", SportID: "voleibol", Name: "Cancha Voleibol Indoor 2", Status: "Disponible", Schedule: "6:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha climatizada, gradas para 50 personas", PricePerHour: 450},
	{ID: "v3", SportID: "voleibol", Name: "Cancha Voleibol Arena", Status: "Disponible", Schedule: "8:00 AM - 8:00 PM", AvailableDays: "Lun-Sab", Features: "Cancha de arena, ideal para beach volley", PricePerHour: 350},
	{ID: "b1", SportID: "baloncesto", Name: "Cancha Baloncesto 1", Status: "Disponible", Schedule: "6:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha profesional, tableros hidráulicos", PricePerHour: 500},
	{ID: "b2", SportID: "baloncesto", Name: "Cancha Baloncesto 2", Status: "Disponible", Schedule: "6:00 AM - 11:00 PM", AvailableDays: "Lun-Dom", Features: "Media cancha, ideal para entrenamientos", PricePerHour: 300},
	{ID: "b3", SportID: "baloncesto", Name: "Cancha Baloncesto Outdoor", Status: "Disponible", Schedule: "7:00 AM - 9:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha al aire libre, piso sintético", PricePerHour: 250},
	{ID: "bd1", SportID: "badminton", Name: "Cancha Bádminton 1", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha doble, sin corrientes de aire", PricePerHour: 220},
	{ID: "bd2", SportID: "badminton", Name: "Cancha Bádminton 2", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha individual con piso de madera", PricePerHour: 200},
	{ID: "bd3", SportID: "badminton", Name: "Cancha Bádminton 3", Status: "Disponible", Schedule: "7:00 AM - 9:00 PM", AvailableDays: "Lun-Vie", Features: "Cancha climatizada, iluminación óptima", PricePerHour: 240},
	{ID: "s1", SportID: "squash", Name: "Cancha Squash 1", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha de cristal profesional", PricePerHour: 280},
	{ID: "s2", SportID: "squash", Name: "Cancha Squash 2", Status: "Disponible", Schedule: "6:00 AM - 10:00 PM", AvailableDays: "Lun-Dom", Features: "Cancha climatizada con ventilación", PricePerHour: 280},
	{ID: "s3", SportID: "squash", Name: "Cancha Squash 3", Status: "Disponible", Schedule: "8:00 AM - 8:00 PM", AvailableDays: "Lun-Sab", Features: "Cancha estándar con paredes blancas", PricePerHour: 250},
}
