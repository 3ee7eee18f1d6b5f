package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"hotel-pms-backend/models"

	"gorm.io/gorm"
)

// ReportService is a read-only projection layer over reservations,
// payments and rooms. Nothing here mutates; dashboard reads tolerate
// running outside the per-room locks.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type DashboardStats struct {
	TotalRooms             int64   `json:"total_rooms"`
	OccupiedRooms          int64   `json:"occupied_rooms"`
	AvailableRooms         int64   `json:"available_rooms"`
	MaintenanceRooms       int64   `json:"maintenance_rooms"`
	CleaningRooms          int64   `json:"cleaning_rooms"`
	OccupancyRate          float64 `json:"occupancy_rate"`
	TotalReservationsToday int64   `json:"total_reservations_today"`
	CheckInsToday          int64   `json:"check_ins_today"`
	CheckOutsToday         int64   `json:"check_outs_today"`
	RevenueToday           float64 `json:"revenue_today"`
	RevenueMonth           float64 `json:"revenue_month"`
	PendingMaintenance     int64   `json:"pending_maintenance"`
}

type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type OccupancyReportRow struct {
	Date          string  `json:"date"`
	TotalRooms    int64   `json:"total_rooms"`
	OccupiedRooms int     `json:"occupied_rooms"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Revenue       float64 `json:"revenue"`
}

type RevenueReportRow struct {
	Period            string  `json:"period"`
	RoomRevenue       float64 `json:"room_revenue"`
	TotalReservations int64   `json:"total_reservations"`
	AverageRate       float64 `json:"average_rate"`
	OccupancyRate     float64 `json:"occupancy_rate"`
}

type PaymentMethodBreakdown struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

type FinancialSummary struct {
	TotalRevenue            float64                  `json:"total_revenue"`
	TotalReservations       int64                    `json:"total_reservations"`
	AverageDailyRate        float64                  `json:"average_daily_rate"`
	RevenuePerAvailableRoom float64                  `json:"revenue_per_available_room"`
	OccupancyRate           float64                  `json:"occupancy_rate"`
	PaymentMethods          []PaymentMethodBreakdown `json:"payment_methods"`
}

type NationalityCount struct {
	Nationality string `json:"nationality"`
	Count       int64  `json:"count"`
}

type GuestStatistics struct {
	TotalGuests         int64              `json:"total_guests"`
	NewGuests           int64              `json:"new_guests"`
	ReturningGuests     int64              `json:"returning_guests"`
	GuestNationalities  []NationalityCount `json:"guest_nationalities"`
	AverageStayDuration float64            `json:"average_stay_duration"`
}

type RoomTypePerformance struct {
	Type          string  `json:"type"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Revenue       float64 `json:"revenue"`
	AverageRate   float64 `json:"average_rate"`
}

type RoomRevenue struct {
	RoomNumber    string  `json:"room_number"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Revenue       float64 `json:"revenue"`
}

type MaintenanceImpact struct {
	RoomNumber      string  `json:"room_number"`
	MaintenanceDays int     `json:"maintenance_days"`
	LostRevenue     float64 `json:"lost_revenue"`
}

type RoomPerformanceReport struct {
	RoomTypes          []RoomTypePerformance `json:"room_types"`
	TopPerformingRooms []RoomRevenue         `json:"top_performing_rooms"`
	MaintenanceImpact  []MaintenanceImpact   `json:"maintenance_impact"`
}

func (s *ReportService) Dashboard() (DashboardStats, error) {
	var stats DashboardStats

	type statusCount struct {
		Status models.RoomStatus
		Count  int64
	}
	var counts []statusCount
	if err := s.DB.Model(&models.Room{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return stats, err
	}
	for _, c := range counts {
		stats.TotalRooms += c.Count
		switch c.Status {
		case models.RoomOccupied:
			stats.OccupiedRooms = c.Count
		case models.RoomAvailable:
			stats.AvailableRooms = c.Count
		case models.RoomMaintenance:
			stats.MaintenanceRooms = c.Count
		case models.RoomCleaning:
			stats.CleaningRooms = c.Count
		}
	}
	if stats.TotalRooms > 0 {
		stats.OccupancyRate = float64(stats.OccupiedRooms) / float64(stats.TotalRooms) * 100
	}

	today := normalizeDate(time.Now().UTC())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	if err := s.DB.Model(&models.Reservation{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&stats.TotalReservationsToday).Error; err != nil {
		return stats, err
	}
	if err := s.DB.Model(&models.Reservation{}).
		Where("actual_check_in >= ? AND actual_check_in < ?", today, tomorrow).
		Count(&stats.CheckInsToday).Error; err != nil {
		return stats, err
	}
	if err := s.DB.Model(&models.Reservation{}).
		Where("actual_check_out >= ? AND actual_check_out < ?", today, tomorrow).
		Count(&stats.CheckOutsToday).Error; err != nil {
		return stats, err
	}

	if err := s.DB.Model(&models.Payment{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.RevenueToday).Error; err != nil {
		return stats, err
	}
	if err := s.DB.Model(&models.Payment{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.RevenueMonth).Error; err != nil {
		return stats, err
	}

	if err := s.DB.Model(&models.MaintenanceTicket{}).
		Where("status IN ?", models.OpenMaintenanceStatuses).
		Count(&stats.PendingMaintenance).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

// RecentActivities merges the latest check-ins, bookings, payments and
// completed maintenance into one reverse-chronological feed.
func (s *ReportService) RecentActivities(limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	var feed []Activity

	var checkins []models.Reservation
	if err := s.DB.Preload("Guest").Preload("Room").
		Where("actual_check_in IS NOT NULL").
		Order("actual_check_in DESC").Limit(limit).
		Find(&checkins).Error; err != nil {
		return nil, err
	}
	for _, r := range checkins {
		feed = append(feed, Activity{
			Type:        "check_in",
			Description: fmt.Sprintf("%s %s checked in to room %s", r.Guest.FirstName, r.Guest.LastName, r.Room.RoomNumber),
			Timestamp:   *r.ActualCheckIn,
		})
	}

	var created []models.Reservation
	if err := s.DB.Preload("Room").
		Order("created_at DESC").Limit(limit).
		Find(&created).Error; err != nil {
		return nil, err
	}
	for _, r := range created {
		feed = append(feed, Activity{
			Type:        "reservation",
			Description: fmt.Sprintf("New reservation for room %s", r.Room.RoomNumber),
			Timestamp:   r.CreatedAt,
		})
	}

	var payments []models.Payment
	if err := s.DB.Order("created_at DESC").Limit(limit).Find(&payments).Error; err != nil {
		return nil, err
	}
	for _, p := range payments {
		kind := "payment"
		if p.Amount < 0 {
			kind = "refund"
		}
		feed = append(feed, Activity{
			Type:        kind,
			Description: fmt.Sprintf("%s of %.2f via %s on reservation %d", kind, p.Amount, p.PaymentMethod, p.ReservationID),
			Timestamp:   p.CreatedAt,
		})
	}

	var completed []models.MaintenanceTicket
	if err := s.DB.Preload("Room").
		Where("status = ?", models.MaintenanceCompleted).
		Order("resolved_at DESC").Limit(limit).
		Find(&completed).Error; err != nil {
		return nil, err
	}
	for _, t := range completed {
		if t.ResolvedAt == nil {
			continue
		}
		feed = append(feed, Activity{
			Type:        "maintenance_completed",
			Description: fmt.Sprintf("Maintenance completed on room %s", t.Room.RoomNumber),
			Timestamp:   *t.ResolvedAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// staysOverlapping loads non-cancelled reservations intersecting
// [start, end) together with their rooms.
func (s *ReportService) staysOverlapping(start, end time.Time) ([]models.Reservation, error) {
	var stays []models.Reservation
	err := s.DB.Preload("Room").Preload("Guest").
		Where("status <> ?", models.ReservationCancelled).
		Where("check_in_date < ? AND check_out_date > ?", end, start).
		Find(&stays).Error
	return stays, err
}

func (s *ReportService) Occupancy(start, end time.Time) ([]OccupancyReportRow, error) {
	start, end = normalizeDate(start), normalizeDate(end)
	if !end.After(start) {
		return nil, validationErr("end date must be after start date")
	}

	var totalRooms int64
	if err := s.DB.Model(&models.Room{}).Count(&totalRooms).Error; err != nil {
		return nil, err
	}
	stays, err := s.staysOverlapping(start, end)
	if err != nil {
		return nil, err
	}

	var rows []OccupancyReportRow
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		row := OccupancyReportRow{Date: day.Format("2006-01-02"), TotalRooms: totalRooms}
		for _, r := range stays {
			if !r.CheckInDate.After(day) && r.CheckOutDate.After(day) {
				row.OccupiedRooms++
				if n := r.Nights(); n > 0 {
					row.Revenue += r.TotalAmount / float64(n)
				}
			}
		}
		if totalRooms > 0 {
			row.OccupancyRate = float64(row.OccupiedRooms) / float64(totalRooms) * 100
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func periodKey(period string, t time.Time) string {
	switch period {
	case "weekly":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "monthly":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func (s *ReportService) Revenue(period string, start, end time.Time) ([]RevenueReportRow, error) {
	switch period {
	case "daily", "weekly", "monthly":
	default:
		return nil, validationErr("period must be daily, weekly or monthly")
	}
	start, end = normalizeDate(start), normalizeDate(end)
	if !end.After(start) {
		return nil, validationErr("end date must be after start date")
	}

	occupancy, err := s.Occupancy(start, end)
	if err != nil {
		return nil, err
	}
	var reservations []models.Reservation
	if err := s.DB.
		Where("status <> ?", models.ReservationCancelled).
		Where("check_in_date >= ? AND check_in_date < ?", start, end).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	buckets := map[string]*RevenueReportRow{}
	var order []string
	bucket := func(key string) *RevenueReportRow {
		if b, ok := buckets[key]; ok {
			return b
		}
		b := &RevenueReportRow{Period: key}
		buckets[key] = b
		order = append(order, key)
		return b
	}

	occRates := map[string][]float64{}
	for _, day := range occupancy {
		t, _ := time.Parse("2006-01-02", day.Date)
		key := periodKey(period, t)
		b := bucket(key)
		b.RoomRevenue += day.Revenue
		occRates[key] = append(occRates[key], day.OccupancyRate)
	}
	for _, r := range reservations {
		bucket(periodKey(period, r.CheckInDate)).TotalReservations++
	}

	rows := make([]RevenueReportRow, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if b.TotalReservations > 0 {
			b.AverageRate = b.RoomRevenue / float64(b.TotalReservations)
		}
		if rates := occRates[key]; len(rates) > 0 {
			var sum float64
			for _, r := range rates {
				sum += r
			}
			b.OccupancyRate = sum / float64(len(rates))
		}
		rows = append(rows, *b)
	}
	return rows, nil
}

func (s *ReportService) Financial(start, end time.Time) (FinancialSummary, error) {
	var summary FinancialSummary
	start, end = normalizeDate(start), normalizeDate(end)
	if !end.After(start) {
		return summary, validationErr("end date must be after start date")
	}

	if err := s.DB.Model(&models.Payment{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalRevenue).Error; err != nil {
		return summary, err
	}

	if err := s.DB.Model(&models.Reservation{}).
		Where("status <> ?", models.ReservationCancelled).
		Where("check_in_date >= ? AND check_in_date < ?", start, end).
		Count(&summary.TotalReservations).Error; err != nil {
		return summary, err
	}

	stays, err := s.staysOverlapping(start, end)
	if err != nil {
		return summary, err
	}
	occupiedNights := 0
	for _, r := range stays {
		occupiedNights += nightsWithin(r, start, end)
	}

	var totalRooms int64
	if err := s.DB.Model(&models.Room{}).Count(&totalRooms).Error; err != nil {
		return summary, err
	}
	days := int(end.Sub(start).Hours() / 24)
	roomNights := totalRooms * int64(days)

	if occupiedNights > 0 {
		summary.AverageDailyRate = summary.TotalRevenue / float64(occupiedNights)
	}
	if roomNights > 0 {
		summary.RevenuePerAvailableRoom = summary.TotalRevenue / float64(roomNights)
		summary.OccupancyRate = float64(occupiedNights) / float64(roomNights) * 100
	}

	if err := s.DB.Model(&models.Payment{}).
		Where("created_at >= ? AND created_at < ? AND amount > 0", start, end).
		Select("payment_method as method, SUM(amount) as amount, COUNT(*) as count").
		Group("payment_method").
		Order("amount DESC").
		Scan(&summary.PaymentMethods).Error; err != nil {
		return summary, err
	}
	return summary, nil
}

// nightsWithin counts the nights of a stay falling inside [start, end).
func nightsWithin(r models.Reservation, start, end time.Time) int {
	from := r.CheckInDate
	if from.Before(start) {
		from = start
	}
	to := r.CheckOutDate
	if to.After(end) {
		to = end
	}
	n := int(to.Sub(from).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

func (s *ReportService) GuestStats(start, end time.Time) (GuestStatistics, error) {
	var stats GuestStatistics
	start, end = normalizeDate(start), normalizeDate(end)
	if !end.After(start) {
		return stats, validationErr("end date must be after start date")
	}

	stays, err := s.staysOverlapping(start, end)
	if err != nil {
		return stats, err
	}

	guestIDs := map[uint]bool{}
	natCounts := map[string]int64{}
	totalNights := 0
	for _, r := range stays {
		if !guestIDs[r.GuestID] {
			guestIDs[r.GuestID] = true
			natCounts[r.Guest.Nationality]++
		}
		totalNights += r.Nights()
	}
	stats.TotalGuests = int64(len(guestIDs))
	if len(stays) > 0 {
		stats.AverageStayDuration = float64(totalNights) / float64(len(stays))
	}

	// A guest is "new" when their earliest reservation starts in range.
	for id := range guestIDs {
		var earlier int64
		err := s.DB.Model(&models.Reservation{}).
			Where("guest_id = ? AND check_in_date < ?", id, start).
			Count(&earlier).Error
		if err != nil {
			return stats, err
		}
		if earlier == 0 {
			stats.NewGuests++
		}
	}
	stats.ReturningGuests = stats.TotalGuests - stats.NewGuests

	for nat, count := range natCounts {
		stats.GuestNationalities = append(stats.GuestNationalities, NationalityCount{Nationality: nat, Count: count})
	}
	sort.Slice(stats.GuestNationalities, func(i, j int) bool {
		return stats.GuestNationalities[i].Count > stats.GuestNationalities[j].Count
	})
	return stats, nil
}

func (s *ReportService) RoomPerformance(start, end time.Time) (RoomPerformanceReport, error) {
	var report RoomPerformanceReport
	start, end = normalizeDate(start), normalizeDate(end)
	if !end.After(start) {
		return report, validationErr("end date must be after start date")
	}
	days := int(end.Sub(start).Hours() / 24)

	var rooms []models.Room
	if err := s.DB.Find(&rooms).Error; err != nil {
		return report, err
	}
	stays, err := s.staysOverlapping(start, end)
	if err != nil {
		return report, err
	}

	type roomAgg struct {
		nights  int
		revenue float64
	}
	perRoom := map[uint]*roomAgg{}
	for _, r := range stays {
		agg := perRoom[r.RoomID]
		if agg == nil {
			agg = &roomAgg{}
			perRoom[r.RoomID] = agg
		}
		n := nightsWithin(r, start, end)
		agg.nights += n
		if total := r.Nights(); total > 0 {
			agg.revenue += r.TotalAmount / float64(total) * float64(n)
		}
	}

	type typeAgg struct {
		rooms   int
		nights  int
		revenue float64
	}
	perType := map[models.RoomType]*typeAgg{}
	var topRooms []RoomRevenue
	for _, room := range rooms {
		ta := perType[room.RoomType]
		if ta == nil {
			ta = &typeAgg{}
			perType[room.RoomType] = ta
		}
		ta.rooms++

		agg := perRoom[room.ID]
		if agg == nil {
			continue
		}
		ta.nights += agg.nights
		ta.revenue += agg.revenue

		rr := RoomRevenue{RoomNumber: room.RoomNumber, Revenue: agg.revenue}
		if days > 0 {
			rr.OccupancyRate = float64(agg.nights) / float64(days) * 100
		}
		topRooms = append(topRooms, rr)
	}

	for typ, ta := range perType {
		perf := RoomTypePerformance{Type: string(typ), Revenue: ta.revenue}
		if available := ta.rooms * days; available > 0 {
			perf.OccupancyRate = float64(ta.nights) / float64(available) * 100
		}
		if ta.nights > 0 {
			perf.AverageRate = ta.revenue / float64(ta.nights)
		}
		report.RoomTypes = append(report.RoomTypes, perf)
	}
	sort.Slice(report.RoomTypes, func(i, j int) bool {
		return report.RoomTypes[i].Revenue > report.RoomTypes[j].Revenue
	})

	sort.Slice(topRooms, func(i, j int) bool { return topRooms[i].Revenue > topRooms[j].Revenue })
	if len(topRooms) > 10 {
		topRooms = topRooms[:10]
	}
	report.TopPerformingRooms = topRooms

	var tickets []models.MaintenanceTicket
	if err := s.DB.Preload("Room").
		Where("created_at < ? AND (resolved_at IS NULL OR resolved_at > ?)", end, start).
		Where("status <> ?", models.MaintenanceCancelled).
		Find(&tickets).Error; err != nil {
		return report, err
	}
	impact := map[uint]*MaintenanceImpact{}
	for _, t := range tickets {
		from := t.CreatedAt
		if from.Before(start) {
			from = start
		}
		to := end
		if t.ResolvedAt != nil && t.ResolvedAt.Before(end) {
			to = *t.ResolvedAt
		}
		d := int(to.Sub(from).Hours() / 24)
		if d <= 0 {
			continue
		}
		mi := impact[t.RoomID]
		if mi == nil {
			mi = &MaintenanceImpact{RoomNumber: t.Room.RoomNumber}
			impact[t.RoomID] = mi
		}
		mi.MaintenanceDays += d
		mi.LostRevenue += float64(d) * t.Room.PricePerNight
	}
	for _, mi := range impact {
		report.MaintenanceImpact = append(report.MaintenanceImpact, *mi)
	}
	sort.Slice(report.MaintenanceImpact, func(i, j int) bool {
		return report.MaintenanceImpact[i].LostRevenue > report.MaintenanceImpact[j].LostRevenue
	})
	return report, nil
}

// ExportCSV renders a report as a CSV file. CSV is the only supported
// export format.
func (s *ReportService) ExportCSV(reportType string, start, end time.Time) (string, []byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch reportType {
	case "occupancy":
		rows, err := s.Occupancy(start, end)
		if err != nil {
			return "", nil, err
		}
		_ = w.Write([]string{"date", "total_rooms", "occupied_rooms", "occupancy_rate", "revenue"})
		for _, r := range rows {
			_ = w.Write([]string{
				r.Date,
				strconv.FormatInt(r.TotalRooms, 10),
				strconv.Itoa(r.OccupiedRooms),
				fmt.Sprintf("%.2f", r.OccupancyRate),
				fmt.Sprintf("%.2f", r.Revenue),
			})
		}
	case "revenue":
		rows, err := s.Revenue("daily", start, end)
		if err != nil {
			return "", nil, err
		}
		_ = w.Write([]string{"period", "room_revenue", "total_reservations", "average_rate", "occupancy_rate"})
		for _, r := range rows {
			_ = w.Write([]string{
				r.Period,
				fmt.Sprintf("%.2f", r.RoomRevenue),
				strconv.FormatInt(r.TotalReservations, 10),
				fmt.Sprintf("%.2f", r.AverageRate),
				fmt.Sprintf("%.2f", r.OccupancyRate),
			})
		}
	case "financial":
		summary, err := s.Financial(start, end)
		if err != nil {
			return "", nil, err
		}
		_ = w.Write([]string{"metric", "value"})
		_ = w.Write([]string{"total_revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)})
		_ = w.Write([]string{"total_reservations", strconv.FormatInt(summary.TotalReservations, 10)})
		_ = w.Write([]string{"average_daily_rate", fmt.Sprintf("%.2f", summary.AverageDailyRate)})
		_ = w.Write([]string{"revenue_per_available_room", fmt.Sprintf("%.2f", summary.RevenuePerAvailableRoom)})
		_ = w.Write([]string{"occupancy_rate", fmt.Sprintf("%.2f", summary.OccupancyRate)})
		for _, m := range summary.PaymentMethods {
			_ = w.Write([]string{"method:" + m.Method, fmt.Sprintf("%.2f", m.Amount)})
		}
	case "guest":
		stats, err := s.GuestStats(start, end)
		if err != nil {
			return "", nil, err
		}
		_ = w.Write([]string{"metric", "value"})
		_ = w.Write([]string{"total_guests", strconv.FormatInt(stats.TotalGuests, 10)})
		_ = w.Write([]string{"new_guests", strconv.FormatInt(stats.NewGuests, 10)})
		_ = w.Write([]string{"returning_guests", strconv.FormatInt(stats.ReturningGuests, 10)})
		_ = w.Write([]string{"average_stay_duration", fmt.Sprintf("%.2f", stats.AverageStayDuration)})
		for _, n := range stats.GuestNationalities {
			_ = w.Write([]string{"nationality:" + n.Nationality, strconv.FormatInt(n.Count, 10)})
		}
	case "room_performance":
		report, err := s.RoomPerformance(start, end)
		if err != nil {
			return "", nil, err
		}
		_ = w.Write([]string{"room_type", "occupancy_rate", "revenue", "average_rate"})
		for _, rt := range report.RoomTypes {
			_ = w.Write([]string{
				rt.Type,
				fmt.Sprintf("%.2f", rt.OccupancyRate),
				fmt.Sprintf("%.2f", rt.Revenue),
				fmt.Sprintf("%.2f", rt.AverageRate),
			})
		}
	default:
		return "", nil, validationErr("unknown report type %q", reportType)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}

	name := fmt.Sprintf("%s_%s_%s.csv", reportType, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return name, buf.Bytes(), nil
}
