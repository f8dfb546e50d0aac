package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"freshCartChurn/domain"
	"freshCartChurn/pkg/logger"
)

// Raw source file names, fixed by the dataset convention.
const (
	FileOrders      = "orders.csv"
	FilePriorLines  = "order_products__prior.csv"
	FileTrainLines  = "order_products__train.csv"
	FileProducts    = "products.csv"
	FileAisles      = "aisles.csv"
	FileDepartments = "departments.csv"
)

var ErrMissingColumn = errors.New("missing required column")

// Repository reads the raw tables from a directory of CSV files. Any
// missing file, unreadable row or absent required column is fatal for
// the whole load; there is no partial-load recovery.
type Repository struct {
	dir string
}

func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

func (r *Repository) LoadAll(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("context error: %w", err)
	}

	var ds domain.Dataset
	var err error

	if ds.Orders, err = r.loadOrders(); err != nil {
		return domain.Dataset{}, err
	}
	if ds.PriorLines, err = r.loadOrderLines(FilePriorLines); err != nil {
		return domain.Dataset{}, err
	}
	if ds.TrainLines, err = r.loadOrderLines(FileTrainLines); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Products, err = r.loadProducts(); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Aisles, err = r.loadAisles(); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Departments, err = r.loadDepartments(); err != nil {
		return domain.Dataset{}, err
	}

	logger.Info("raw dataset loaded",
		"orders", len(ds.Orders),
		"prior_lines", len(ds.PriorLines),
		"train_lines", len(ds.TrainLines),
		"products", len(ds.Products),
		"aisles", len(ds.Aisles),
		"departments", len(ds.Departments),
	)

	return ds, nil
}

// header maps column name -> index and enforces the declared schema.
type header map[string]int

func (h header) require(file string, cols ...string) error {
	for _, col := range cols {
		if _, ok := h[col]; !ok {
			return fmt.Errorf("%s: %w: %s", file, ErrMissingColumn, col)
		}
	}
	return nil
}

func (r *Repository) open(file string) (*os.File, *csv.Reader, header, error) {
	path := filepath.Join(r.dir, file)

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", file, err)
	}

	cr := csv.NewReader(f)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		f.Close()
		return nil, nil, nil, fmt.Errorf("read %s header: %w", file, err)
	}

	h := make(header, len(head))
	for i, name := range head {
		h[name] = i
	}

	return f, cr, h, nil
}

func (r *Repository) loadOrders() ([]domain.Order, error) {
	f, cr, h, err := r.open(FileOrders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := h.require(FileOrders,
		"order_id", "user_id", "eval_set", "order_number",
		"order_dow", "order_hour_of_day", "days_since_prior_order",
	); err != nil {
		return nil, err
	}

	var orders []domain.Order
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", FileOrders, row, err)
		}
		row++

		o := domain.Order{EvalSet: rec[h["eval_set"]]}
		if o.OrderID, err = strconv.ParseUint(rec[h["order_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d order_id: %w", FileOrders, row, err)
		}
		if o.UserID, err = strconv.ParseUint(rec[h["user_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d user_id: %w", FileOrders, row, err)
		}
		if o.OrderNumber, err = strconv.Atoi(rec[h["order_number"]]); err != nil {
			return nil, fmt.Errorf("%s row %d order_number: %w", FileOrders, row, err)
		}
		if o.OrderDOW, err = strconv.Atoi(rec[h["order_dow"]]); err != nil {
			return nil, fmt.Errorf("%s row %d order_dow: %w", FileOrders, row, err)
		}
		if o.OrderHourOfDay, err = strconv.Atoi(rec[h["order_hour_of_day"]]); err != nil {
			return nil, fmt.Errorf("%s row %d order_hour_of_day: %w", FileOrders, row, err)
		}

		// Empty on each user's first order.
		if raw := rec[h["days_since_prior_order"]]; raw != "" {
			if o.DaysSincePriorOrder, err = strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("%s row %d days_since_prior_order: %w", FileOrders, row, err)
			}
			o.DaysSincePriorKnown = true
		}

		orders = append(orders, o)
	}

	return orders, nil
}

func (r *Repository) loadOrderLines(file string) ([]domain.OrderLine, error) {
	f, cr, h, err := r.open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := h.require(file, "order_id", "product_id", "add_to_cart_order", "reordered"); err != nil {
		return nil, err
	}

	var lines []domain.OrderLine
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", file, row, err)
		}
		row++

		var l domain.OrderLine
		if l.OrderID, err = strconv.ParseUint(rec[h["order_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d order_id: %w", file, row, err)
		}
		if l.ProductID, err = strconv.ParseUint(rec[h["product_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d product_id: %w", file, row, err)
		}
		if l.AddToCartOrder, err = strconv.Atoi(rec[h["add_to_cart_order"]]); err != nil {
			return nil, fmt.Errorf("%s row %d add_to_cart_order: %w", file, row, err)
		}
		l.Reordered = rec[h["reordered"]] == "1"

		lines = append(lines, l)
	}

	return lines, nil
}

func (r *Repository) loadProducts() ([]domain.Product, error) {
	f, cr, h, err := r.open(FileProducts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := h.require(FileProducts, "product_id", "product_name", "aisle_id", "department_id"); err != nil {
		return nil, err
	}

	var products []domain.Product
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", FileProducts, row, err)
		}
		row++

		var p domain.Product
		if p.ProductID, err = strconv.ParseUint(rec[h["product_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d product_id: %w", FileProducts, row, err)
		}
		p.ProductName = rec[h["product_name"]]
		if p.AisleID, err = strconv.ParseUint(rec[h["aisle_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d aisle_id: %w", FileProducts, row, err)
		}
		if p.DepartmentID, err = strconv.ParseUint(rec[h["department_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d department_id: %w", FileProducts, row, err)
		}

		products = append(products, p)
	}

	return products, nil
}

func (r *Repository) loadAisles() ([]domain.Aisle, error) {
	f, cr, h, err := r.open(FileAisles)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := h.require(FileAisles, "aisle_id", "aisle"); err != nil {
		return nil, err
	}

	var aisles []domain.Aisle
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", FileAisles, row, err)
		}
		row++

		var a domain.Aisle
		if a.AisleID, err = strconv.ParseUint(rec[h["aisle_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d aisle_id: %w", FileAisles, row, err)
		}
		a.Name = rec[h["aisle"]]

		aisles = append(aisles, a)
	}

	return aisles, nil
}

func (r *Repository) loadDepartments() ([]domain.Department, error) {
	f, cr, h, err := r.open(FileDepartments)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := h.require(FileDepartments, "department_id", "department"); err != nil {
		return nil, err
	}

	var departments []domain.Department
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", FileDepartments, row, err)
		}
		row++

		var d domain.Department
		if d.DepartmentID, err = strconv.ParseUint(rec[h["department_id"]], 10, 64); err != nil {
			return nil, fmt.Errorf("%s row %d department_id: %w", FileDepartments, row, err)
		}
		d.Name = rec[h["department"]]

		departments = append(departments, d)
	}

	return departments, nil
}
